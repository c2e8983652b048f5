package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"nigaran-engine/internal/apperr"
	"nigaran-engine/internal/schema"
)

const maxBodyBytes = 1 << 20

func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		allow := make([]string, 0, len(m))
		for method := range m {
			allow = append(allow, method)
		}
		w.Header().Set("Allow", strings.Join(allow, ", "))
		WriteError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	return schema.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), dst)
}

// pathID returns the single path segment after prefix, e.g. "/blogs/".
func pathID(r *http.Request, prefix string) (string, error) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if id == "" || strings.Contains(id, "/") {
		return "", apperr.NotFound("Not found")
	}
	return id, nil
}

// queryID reads the ?id= parameter used by the delete endpoints.
func queryID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		return "", apperr.Validation(apperr.Field("id", "ID is required"))
	}
	return id, nil
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}
