package httpapi

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nigaran-engine/internal/resource"
)

type StatsHandler struct {
	Engine *resource.Engine
	Log    *zap.Logger
}

// Stats counts every resource concurrently.
func (h StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counters := []struct {
		name  string
		count func(context.Context) (int, error)
	}{
		{"leads", h.Engine.Leads.Count},
		{"testimonials", h.Engine.Testimonials.Count},
		{"blogs", h.Engine.Blogs.Count},
		{"careers", h.Engine.Careers.Count},
		{"applications", h.Engine.Applications.Count},
	}

	counts := make([]int, len(counters))
	g, ctx := errgroup.WithContext(r.Context())
	for i, c := range counters {
		i, c := i, c
		g.Go(func() error {
			n, err := c.count(ctx)
			counts[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}

	out := make(map[string]int, len(counters))
	for i, c := range counters {
		out[c.name] = counts[i]
	}
	WriteOK(w, http.StatusOK, map[string]any{"stats": out})
}
