package listing

import (
	"io"
	"strconv"
	"strings"
	"time"

	"nigaran-engine/internal/content"
	"nigaran-engine/internal/domain"
)

const dateLayout = "2006-01-02"

// Resource describes how one record type is searched, paged and exported.
type Resource[R any] struct {
	Name     string
	PageSize int
	ID       func(R) string
	Fields   []Field[R]
	// Category, when set, backs the tab filter (lead type, blog category...).
	Category func(R) string
	Headers  []string
	Row      func(R) []string
}

func (res Resource[R]) inCategory(items []R, category string) []R {
	if category == "" || res.Category == nil {
		return items
	}
	return Where(items, func(r R) bool { return strings.EqualFold(res.Category(r), category) })
}

// Select applies the category tab and the search term.
func (res Resource[R]) Select(items []R, term, category string) []R {
	return Filter(res.inCategory(items, category), term, res.Fields...)
}

func (res Resource[R]) Page(items []R, term, category string, page int) Page[R] {
	return Paginate(res.Select(items, term, category), page, res.PageSize)
}

// PageIDs is the "select all" checkbox: every id on one page of a search.
func (res Resource[R]) PageIDs(items []R, term, category string, page int) []string {
	v := res.View(res.inCategory(items, category))
	v.Search(term)
	v.SetPage(page)
	v.SelectAll()
	return v.Selected()
}

func (res Resource[R]) View(items []R) *View[R] {
	return NewView(items, res.PageSize, res.ID, res.Fields...)
}

// Export writes the filtered, unpaginated selection as CSV.
func (res Resource[R]) Export(w io.Writer, items []R, term, category string) error {
	sel := res.Select(items, term, category)
	rows := make([][]string, 0, len(sel))
	for _, it := range sel {
		rows = append(rows, res.Row(it))
	}
	return WriteCSV(w, res.Headers, rows)
}

func (res Resource[R]) FileName(category string) string {
	if category != "" {
		return strings.ToLower(category) + "-" + res.Name + ".csv"
	}
	return res.Name + ".csv"
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

var Leads = Resource[domain.Lead]{
	Name:     "leads",
	PageSize: 10,
	ID:       func(l domain.Lead) string { return l.ID },
	Fields: []Field[domain.Lead]{
		func(l domain.Lead) string { return l.Name },
		func(l domain.Lead) string { return l.ContactNumber },
		func(l domain.Lead) string { return l.City },
	},
	Category: func(l domain.Lead) string { return string(l.Category) },
	Headers:  []string{"Name", "WhatsApp Number", "Electricity Bill", "City", "Company", "Type", "Date"},
	Row: func(l domain.Lead) []string {
		return []string{
			l.Name,
			l.ContactNumber,
			strconv.Itoa(l.ElectricityBill),
			l.City,
			deref(l.CompanyName),
			string(l.Category),
			date(l.CreatedAt),
		}
	},
}

var Testimonials = Resource[domain.Testimonial]{
	Name:     "testimonials",
	PageSize: 9,
	ID:       func(t domain.Testimonial) string { return t.ID },
	Fields: []Field[domain.Testimonial]{
		func(t domain.Testimonial) string { return t.Name },
		func(t domain.Testimonial) string { return t.Role },
		func(t domain.Testimonial) string { return t.Content },
	},
	Headers: []string{"Name", "Role", "Content", "Image URL", "YouTube URL"},
	Row: func(t domain.Testimonial) []string {
		return []string{t.Name, t.Role, t.Content, t.ImageURL, deref(t.YoutubeURL)}
	},
}

var Blogs = Resource[domain.Blog]{
	Name:     "blogs",
	PageSize: 10,
	ID:       func(b domain.Blog) string { return b.ID },
	Fields: []Field[domain.Blog]{
		func(b domain.Blog) string { return b.Title },
		func(b domain.Blog) string { return b.Category },
	},
	Category: func(b domain.Blog) string { return b.Category },
	Headers:  []string{"Title", "Category", "Excerpt", "Read Minutes", "Date"},
	Row: func(b domain.Blog) []string {
		return []string{b.Title, b.Category, b.Excerpt, strconv.Itoa(content.ReadMinutes(b.Content)), date(b.CreatedAt)}
	},
}

var Careers = Resource[domain.Career]{
	Name:     "careers",
	PageSize: 10,
	ID:       func(c domain.Career) string { return c.ID },
	Fields: []Field[domain.Career]{
		func(c domain.Career) string { return c.Title },
		func(c domain.Career) string { return c.Location },
		func(c domain.Career) string { return string(c.Type) },
	},
	Category: func(c domain.Career) string { return string(c.Type) },
	Headers:  []string{"Title", "Type", "Location", "Created At"},
	Row: func(c domain.Career) []string {
		return []string{c.Title, string(c.Type), c.Location, date(c.CreatedAt)}
	},
}

const unknownPosition = "Unknown Position"

var Applications = Resource[domain.ApplicationView]{
	Name:     "applications",
	PageSize: 10,
	ID:       func(a domain.ApplicationView) string { return a.ID },
	Fields: []Field[domain.ApplicationView]{
		func(a domain.ApplicationView) string { return a.Name },
		func(a domain.ApplicationView) string { return a.Email },
	},
	Category: func(a domain.ApplicationView) string { return a.CareerID },
	Headers:  []string{"Name", "Email", "Phone", "Job Title", "Created At"},
	Row: func(a domain.ApplicationView) []string {
		title := a.CareerTitle
		if title == "" {
			title = unknownPosition
		}
		return []string{a.Name, a.Email, a.Phone, title, date(a.CreatedAt)}
	},
}
