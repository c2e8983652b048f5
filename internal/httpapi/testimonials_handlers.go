package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"nigaran-engine/internal/domain"
	"nigaran-engine/internal/resource"
)

type TestimonialsHandler struct {
	Testimonials *resource.TestimonialService
	Log          *zap.Logger
}

func (h TestimonialsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Testimonials.List(r.Context())
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"testimonials": items})
}

func (h TestimonialsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.TestimonialInput
	if err := decode(w, r, &in); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	t, err := h.Testimonials.Create(r.Context(), in)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusCreated, map[string]any{"testimonial": t})
}

// UpdateByPath replaces a testimonial; expects /testimonials/{id}.
func (h TestimonialsHandler) UpdateByPath(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "/testimonials/")
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	var in domain.TestimonialInput
	if err := decode(w, r, &in); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	t, err := h.Testimonials.Update(r.Context(), id, in)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"testimonial": t})
}

func (h TestimonialsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	if err := h.Testimonials.Delete(r.Context(), id); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"id": id})
}
