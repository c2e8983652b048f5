package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"nigaran-engine/internal/apperr"
)

// ClientLimiter rate-limits public form submissions per client address.
type ClientLimiter struct {
	mu sync.Mutex
	m  map[string]*clientEntry
	r  rate.Limit
	b  int

	now func() time.Time
}

type clientEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewClientLimiter(perMinute, burst int) *ClientLimiter {
	return &ClientLimiter{
		m:   make(map[string]*clientEntry),
		r:   rate.Limit(float64(perMinute) / 60),
		b:   burst,
		now: time.Now,
	}
}

func (cl *ClientLimiter) limiterFor(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if e, ok := cl.m[key]; ok {
		e.seen = cl.now()
		return e.lim
	}
	lim := rate.NewLimiter(cl.r, cl.b)
	cl.m[key] = &clientEntry{lim: lim, seen: cl.now()}
	return lim
}

func (cl *ClientLimiter) Allow(key string) bool {
	return cl.limiterFor(key).AllowN(cl.now(), 1)
}

// Prune forgets clients not seen for idle and reports how many it dropped.
func (cl *ClientLimiter) Prune(idle time.Duration) int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cutoff := cl.now().Add(-idle)
	n := 0
	for k, e := range cl.m {
		if e.seen.Before(cutoff) {
			delete(cl.m, k)
			n++
		}
	}
	return n
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr can sometimes be just a host
		host = r.RemoteAddr
	}
	if host == "" {
		return "_"
	}
	return host
}

// Limit wraps a public submission handler. A nil limiter lets everything
// through.
func (cl *ClientLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	if cl == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !cl.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", "60")
			WriteFailure(w, r, nil, apperr.RateLimited("Too many submissions, please try again in a minute"))
			return
		}
		next(w, r)
	}
}
