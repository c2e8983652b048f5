package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"nigaran-engine/internal/domain"
	"nigaran-engine/internal/resource"
)

type BlogsHandler struct {
	Blogs *resource.BlogService
	Log   *zap.Logger
}

func (h BlogsHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.Blogs.List(r.Context())
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"blogs": resource.BlogViews(blogs)})
}

func (h BlogsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.BlogInput
	if err := decode(w, r, &in); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	b, err := h.Blogs.Create(r.Context(), in)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusCreated, map[string]any{"blog": resource.BlogView(b)})
}

// GetByPath expects /blogs/{id}.
func (h BlogsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "/blogs/")
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	b, err := h.Blogs.Read(r.Context(), id)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"blog": resource.BlogView(b)})
}

func (h BlogsHandler) UpdateByPath(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "/blogs/")
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	var in domain.BlogInput
	if err := decode(w, r, &in); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	b, err := h.Blogs.Update(r.Context(), id, in)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"blog": resource.BlogView(b)})
}

func (h BlogsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "/blogs/")
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	if err := h.Blogs.Delete(r.Context(), id); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]any{"id": id})
}
