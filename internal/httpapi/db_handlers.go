package httpapi

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type DBHandler struct {
	CheckpointFn func(ctx context.Context) error
	Log          *zap.Logger
}

// Checkpoint folds the write-ahead log into the main database file, e.g.
// before copying it for a backup.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if h.CheckpointFn == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.CheckpointFn(r.Context()); err != nil {
		h.Log.Error("checkpoint failed", zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, internalMessage)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
