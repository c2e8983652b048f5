package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"nigaran-engine/internal/domain"
	"nigaran-engine/internal/resource"
)

type CareersHandler struct {
	Engine *resource.Engine
	Log    *zap.Logger
}

func (h CareersHandler) List(w http.ResponseWriter, r *http.Request) {
	careers, err := h.Engine.Careers.List(r.Context())
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"careers": careers})
}

func (h CareersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.CareerInput
	if err := decode(w, r, &in); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	c, err := h.Engine.Careers.Create(r.Context(), in)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusCreated, map[string]any{"career": c})
}

// GetByPath expects /careers/{id}.
func (h CareersHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "/careers/")
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	c, err := h.Engine.Careers.Read(r.Context(), id)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"career": c})
}

// PatchByPath updates only the fields present in the body.
func (h CareersHandler) PatchByPath(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "/careers/")
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	var p domain.CareerPatch
	if err := decode(w, r, &p); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	c, err := h.Engine.PatchCareer(r.Context(), id, p)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"career": c})
}

func (h CareersHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "/careers/")
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	if err := h.Engine.Careers.Delete(r.Context(), id); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"id": id})
}
