package listing

// View is the admin list state for one resource: the current search term,
// the current page and the ids selected on that page. Selection never
// outlives the page it was made on.
type View[R any] struct {
	items  []R
	id     func(R) string
	fields []Field[R]
	size   int

	term     string
	page     int
	selected map[string]bool
}

func NewView[R any](items []R, size int, id func(R) string, fields ...Field[R]) *View[R] {
	return &View[R]{
		items:    items,
		id:       id,
		fields:   fields,
		size:     size,
		page:     1,
		selected: map[string]bool{},
	}
}

// Reset replaces the underlying records, e.g. after a reload. Selections of
// records no longer on the current page are dropped; if the page itself had
// to be clamped the selection is cleared.
func (v *View[R]) Reset(items []R) {
	v.items = items
	cur := v.Current()
	if cur.Page != v.page {
		v.page = cur.Page
		clear(v.selected)
		return
	}
	keep := map[string]bool{}
	for _, it := range cur.Items {
		if id := v.id(it); v.selected[id] {
			keep[id] = true
		}
	}
	v.selected = keep
}

func (v *View[R]) Filtered() []R { return Filter(v.items, v.term, v.fields...) }

func (v *View[R]) Current() Page[R] { return Paginate(v.Filtered(), v.page, v.size) }

func (v *View[R]) Term() string { return v.term }

// Search sets the term and returns to the first page.
func (v *View[R]) Search(term string) {
	v.term = term
	v.SetPage(1)
}

// SetPage moves to page n (clamped). Changing page clears the selection.
func (v *View[R]) SetPage(n int) {
	v.page = n
	v.page = v.Current().Page
	clear(v.selected)
}

func (v *View[R]) Toggle(id string) {
	if v.selected[id] {
		delete(v.selected, id)
		return
	}
	for _, it := range v.Current().Items {
		if v.id(it) == id {
			v.selected[id] = true
			return
		}
	}
}

// SelectAll selects every record on the current page only.
func (v *View[R]) SelectAll() {
	for _, it := range v.Current().Items {
		v.selected[v.id(it)] = true
	}
}

func (v *View[R]) SelectNone() { clear(v.selected) }

// AllSelected reports whether every record on the current page is selected.
func (v *View[R]) AllSelected() bool {
	items := v.Current().Items
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !v.selected[v.id(it)] {
			return false
		}
	}
	return true
}

// Selected returns the selected ids in page order.
func (v *View[R]) Selected() []string {
	out := []string{}
	for _, it := range v.Current().Items {
		if id := v.id(it); v.selected[id] {
			out = append(out, id)
		}
	}
	return out
}
