package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"nigaran-engine/internal/session"
)

// tokenFrom reads the session token from the Authorization header or the
// session cookie.
func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	if c, err := r.Cookie(session.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// RequireSession rejects requests without a live admin session.
func RequireSession(gate *session.Gate, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			s, err := gate.Resolve(r.Context(), tokenFrom(r))
			if err != nil {
				WriteFailure(w, r, logger, err)
				return
			}
			next(w, r.WithContext(session.NewContext(r.Context(), s)))
		}
	}
}
