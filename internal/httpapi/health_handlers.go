package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type HealthHandler struct {
	Ping func(ctx context.Context) error
	Log  *zap.Logger
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			h.Log.Warn("health check failed", zap.Error(err))
			WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"success": false, "ok": false})
			return
		}
	}
	WriteOK(w, http.StatusOK, map[string]any{"ok": true, "time": time.Now().UTC().Format(time.RFC3339)})
}
