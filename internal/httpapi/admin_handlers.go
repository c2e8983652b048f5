package httpapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"nigaran-engine/internal/apperr"
	"nigaran-engine/internal/domain"
	"nigaran-engine/internal/listing"
	"nigaran-engine/internal/resource"
)

// adminList is one resource's admin table: paged search, export and bulk
// delete over the full record list.
type adminList interface {
	page(ctx context.Context, term, category string, page int) (any, error)
	export(ctx context.Context, w io.Writer, term, category string) error
	pageIDs(ctx context.Context, term, category string, page int) ([]string, error)
	delete(ctx context.Context, id string) error
	fileName(category string) string
}

type lister[R any] struct {
	res  listing.Resource[R]
	list func(context.Context) ([]R, error)
	del  func(context.Context, string) error
}

func (l lister[R]) page(ctx context.Context, term, category string, page int) (any, error) {
	items, err := l.list(ctx)
	if err != nil {
		return nil, err
	}
	return l.res.Page(items, term, category, page), nil
}

func (l lister[R]) export(ctx context.Context, w io.Writer, term, category string) error {
	items, err := l.list(ctx)
	if err != nil {
		return err
	}
	return l.res.Export(w, items, term, category)
}

func (l lister[R]) pageIDs(ctx context.Context, term, category string, page int) ([]string, error) {
	items, err := l.list(ctx)
	if err != nil {
		return nil, err
	}
	return l.res.PageIDs(items, term, category, page), nil
}

func (l lister[R]) delete(ctx context.Context, id string) error { return l.del(ctx, id) }

func (l lister[R]) fileName(category string) string { return l.res.FileName(category) }

// adminLists builds the admin tables keyed by their URL name.
func adminLists(e *resource.Engine) map[string]adminList {
	apps := lister[domain.ApplicationView]{
		res:  listing.Applications,
		list: e.ApplicationViews,
		del:  e.Applications.Delete,
	}
	return map[string]adminList{
		"leads":            lister[domain.Lead]{res: listing.Leads, list: e.Leads.List, del: e.Leads.Delete},
		"testimonials":     lister[domain.Testimonial]{res: listing.Testimonials, list: e.Testimonials.List, del: e.Testimonials.Delete},
		"blogs":            lister[domain.Blog]{res: listing.Blogs, list: e.Blogs.List, del: e.Blogs.Delete},
		"careers":          lister[domain.Career]{res: listing.Careers, list: e.Careers.List, del: e.Careers.Delete},
		"applications":     apps,
		"job-applications": apps,
	}
}

type AdminHandler struct {
	Lists map[string]adminList
	Log   *zap.Logger
}

// Route dispatches /admin/{resource}/{page|export.csv|bulk-delete}.
func (h AdminHandler) Route(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/"), "/"), "/")
	if len(parts) != 2 {
		WriteFailure(w, r, h.Log, apperr.NotFound("Not found"))
		return
	}
	l, ok := h.Lists[parts[0]]
	if !ok {
		WriteFailure(w, r, h.Log, apperr.NotFound("Unknown resource "+parts[0]))
		return
	}

	var handler http.HandlerFunc
	switch parts[1] {
	case "page":
		handler = methodMux(map[string]http.HandlerFunc{http.MethodGet: h.page(l)})
	case "export.csv":
		handler = methodMux(map[string]http.HandlerFunc{http.MethodGet: h.export(l)})
	case "bulk-delete":
		handler = methodMux(map[string]http.HandlerFunc{http.MethodPost: h.bulkDelete(l)})
	default:
		WriteFailure(w, r, h.Log, apperr.NotFound("Not found"))
		return
	}
	handler(w, r)
}

func (h AdminHandler) page(l adminList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		p, err := l.page(r.Context(), q.Get("q"), q.Get("category"), queryInt(r, "page", 1))
		if err != nil {
			WriteFailure(w, r, h.Log, err)
			return
		}
		WriteOK(w, http.StatusOK, map[string]any{"page": p})
	}
}

func (h AdminHandler) export(l adminList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		category := q.Get("category")

		// Buffer so a mid-export failure still produces a JSON error.
		var buf bytes.Buffer
		if err := l.export(r.Context(), &buf, q.Get("q"), category); err != nil {
			WriteFailure(w, r, h.Log, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+l.fileName(category)+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

type bulkDeleteReq struct {
	IDs []string `json:"ids"`

	// All selects every record on the given page of the given search.
	All      bool   `json:"all"`
	Page     int    `json:"page"`
	Q        string `json:"q"`
	Category string `json:"category"`
}

func (h AdminHandler) bulkDelete(l adminList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkDeleteReq
		if err := decode(w, r, &req); err != nil {
			WriteFailure(w, r, h.Log, err)
			return
		}

		ids := req.IDs
		if req.All {
			var err error
			ids, err = l.pageIDs(r.Context(), req.Q, req.Category, max(req.Page, 1))
			if err != nil {
				WriteFailure(w, r, h.Log, err)
				return
			}
		}
		if len(ids) == 0 {
			WriteFailure(w, r, h.Log, apperr.Validation(apperr.Field("ids", "Select at least one item")))
			return
		}

		results := listing.BulkDelete(r.Context(), ids, l.delete)
		failed := listing.Failed(results)
		if failed > 0 {
			h.Log.Warn("bulk delete partially failed",
				zap.String("request_id", RequestIDFrom(r.Context())),
				zap.Int("failed", failed),
				zap.Int("total", len(results)),
			)
		}
		WriteOK(w, http.StatusOK, map[string]any{
			"results": results,
			"deleted": len(results) - failed,
			"failed":  failed,
		})
	}
}
