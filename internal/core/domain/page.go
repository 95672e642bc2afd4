package domain

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is a normalized 1-based pagination request.
type Page struct {
	Number int
	Limit  int
}

// NewPage applies the defaults and clamps limit to MaxPageLimit.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

// Skip is the number of rows preceding the page.
func (p Page) Skip() int {
	return (p.Number - 1) * p.Limit
}

// Window returns the [start, end) bounds of the page over n items.
func (p Page) Window(n int) (int, int) {
	start := p.Skip()
	if start > n {
		start = n
	}
	end := start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}

// PageMeta describes a page of a filtered result set.
type PageMeta struct {
	Page        int
	Limit       int
	Total       int64
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// Meta computes page metadata for total filtered rows.
func (p Page) Meta(total int64) PageMeta {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return PageMeta{
		Page:        p.Number,
		Limit:       p.Limit,
		Total:       total,
		TotalPages:  pages,
		HasNext:     p.Number < pages,
		HasPrevious: p.Number > 1,
	}
}
