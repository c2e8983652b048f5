// Package listing filters, pages, selects and exports in-memory record
// lists for the admin views.
package listing

import (
	"context"
	"strings"
)

// Field extracts one displayed, searchable value from a record.
type Field[R any] func(R) string

// Filter keeps the records where term is a case-insensitive substring of
// any of fields. A blank term keeps everything.
func Filter[R any](items []R, term string, fields ...Field[R]) []R {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	out := make([]R, 0, len(items))
	for _, it := range items {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f(it)), term) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Where keeps the records matching keep.
func Where[R any](items []R, keep func(R) bool) []R {
	out := make([]R, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

type Page[R any] struct {
	Items      []R   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int   `json:"total"`
	TotalPages int   `json:"totalPages"`
	Numbers    []int `json:"pageNumbers"`
}

// Paginate returns the 1-indexed page of items. Pages past either end are
// clamped; an empty list yields an empty first page.
func Paginate[R any](items []R, page, size int) Page[R] {
	if size <= 0 {
		size = 10
	}
	total := len(items)
	pages := (total + size - 1) / size
	if page < 1 {
		page = 1
	}
	if pages > 0 && page > pages {
		page = pages
	}
	if pages == 0 {
		page = 1
	}

	start := (page - 1) * size
	end := min(start+size, total)
	var window []R
	if start < end {
		window = items[start:end]
	}
	if window == nil {
		window = []R{}
	}
	return Page[R]{
		Items:      window,
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: pages,
		Numbers:    PageNumbers(page, pages),
	}
}

// Ellipsis marks a collapsed run in a PageNumbers sequence.
const Ellipsis = 0

const maxVisiblePages = 5

// PageNumbers lists the page links to render. Short ranges are listed in
// full; otherwise the first and last page are always shown together with
// the current page and its two neighbours, and each gap collapses into a
// single Ellipsis. Near either end the four edge pages are shown instead.
func PageNumbers(current, total int) []int {
	if total <= 0 {
		return []int{}
	}
	current = max(1, min(current, total))

	out := make([]int, 0, 7)
	switch {
	case total <= maxVisiblePages:
		for p := 1; p <= total; p++ {
			out = append(out, p)
		}
	case current <= 3:
		out = append(out, 1, 2, 3, 4, Ellipsis, total)
	case current >= total-2:
		out = append(out, 1, Ellipsis)
		for p := total - 3; p <= total; p++ {
			out = append(out, p)
		}
	default:
		out = append(out, 1, Ellipsis, current-1, current, current+1, Ellipsis, total)
	}
	return out
}

// Outcome is the result of deleting one selected record.
type Outcome struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BulkDelete deletes ids one at a time in order and reports every result.
// A failure does not stop the remaining deletes.
func BulkDelete(ctx context.Context, ids []string, del func(context.Context, string) error) []Outcome {
	out := make([]Outcome, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			out = append(out, Outcome{ID: id, Error: err.Error()})
			continue
		}
		if err := del(ctx, id); err != nil {
			out = append(out, Outcome{ID: id, Error: err.Error()})
			continue
		}
		out = append(out, Outcome{ID: id, OK: true})
	}
	return out
}

// Failed counts the unsuccessful outcomes.
func Failed(outs []Outcome) int {
	n := 0
	for _, o := range outs {
		if !o.OK {
			n++
		}
	}
	return n
}
