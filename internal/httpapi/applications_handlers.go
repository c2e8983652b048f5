package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"nigaran-engine/internal/domain"
	"nigaran-engine/internal/resource"
)

type ApplicationsHandler struct {
	Engine *resource.Engine
	Log    *zap.Logger
}

// List returns every application with its career title.
func (h ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.Engine.ApplicationViews(r.Context())
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"applications": views})
}

func (h ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.ApplicationInput
	if err := decode(w, r, &in); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	a, err := h.Engine.Applications.Create(r.Context(), in)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusCreated, map[string]any{
		"application": a,
		"message":     "Application submitted successfully",
	})
}
