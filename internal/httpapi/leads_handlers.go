package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"nigaran-engine/internal/domain"
	"nigaran-engine/internal/resource"
)

type LeadsHandler struct {
	Leads *resource.LeadService
	Log   *zap.Logger
}

func (h LeadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.LeadInput
	if err := decode(w, r, &in); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	lead, err := h.Leads.Create(r.Context(), in)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusCreated, map[string]any{"lead": lead})
}

func (h LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.List(r.Context())
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"leads": leads})
}

func (h LeadsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	if err := h.Leads.Delete(r.Context(), id); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"id": id})
}
