// Package pagination implements the page-window arithmetic used by every
// list endpoint. A Paginator never mutates itself implicitly: when the item
// count changes (e.g. a filter narrows the list) the caller decides whether
// to reset the page. That asymmetry is intentional, so a count update can
// never trigger a page change mid-computation.
package pagination

// DefaultItemsPerPage is used when the caller supplies a non-positive size.
const DefaultItemsPerPage = 10

// Paginator computes the visible window over a filtered item count.
type Paginator struct {
	totalItems   int
	itemsPerPage int
	currentPage  int
}

// New creates a Paginator. itemsPerPage falls back to DefaultItemsPerPage
// when non-positive, and the initial page is clamped like SetPage would.
func New(totalItems, itemsPerPage, initialPage int) *Paginator {
	if totalItems < 0 {
		totalItems = 0
	}
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	p := &Paginator{
		totalItems:   totalItems,
		itemsPerPage: itemsPerPage,
		currentPage:  1,
	}
	p.SetPage(initialPage)
	return p
}

// TotalPages is ceil(totalItems/itemsPerPage), and 0 for an empty list.
func (p *Paginator) TotalPages() int {
	if p.totalItems == 0 {
		return 0
	}
	return (p.totalItems + p.itemsPerPage - 1) / p.itemsPerPage
}

// CurrentPage returns the 1-based current page.
func (p *Paginator) CurrentPage() int {
	return p.currentPage
}

// StartIndex returns the inclusive start of the visible window.
func (p *Paginator) StartIndex() int {
	return (p.currentPage - 1) * p.itemsPerPage
}

// EndIndex returns the exclusive end of the visible window, capped at the
// item count so the last page may be partial.
func (p *Paginator) EndIndex() int {
	end := p.StartIndex() + p.itemsPerPage
	if end > p.totalItems {
		end = p.totalItems
	}
	return end
}

// Window returns the [start, end) slice bounds for the current page. Start
// is capped at the item count so an out-of-range page yields an empty
// window instead of a panic.
func (p *Paginator) Window() (start, end int) {
	start, end = p.StartIndex(), p.EndIndex()
	if start > p.totalItems {
		start = p.totalItems
	}
	return start, end
}

// SetPage clamps the requested page into [1, TotalPages], or to 1 when the
// list is empty.
func (p *Paginator) SetPage(page int) {
	total := p.TotalPages()
	if total == 0 || page < 1 {
		page = 1
	} else if page > total {
		page = total
	}
	p.currentPage = page
}

// Next advances one page, never past the last one.
func (p *Paginator) Next() {
	p.SetPage(p.currentPage + 1)
}

// Prev retreats one page, never below the first one.
func (p *Paginator) Prev() {
	p.SetPage(p.currentPage - 1)
}

// HasNext reports whether a further page exists.
func (p *Paginator) HasNext() bool {
	return p.currentPage < p.TotalPages()
}

// HasPrev reports whether an earlier page exists.
func (p *Paginator) HasPrev() bool {
	return p.currentPage > 1
}

// SetTotalItems updates the item count without touching the current page.
// Callers that change a filter must call SetPage(1) themselves if they want
// the window to reset.
func (p *Paginator) SetTotalItems(totalItems int) {
	if totalItems < 0 {
		totalItems = 0
	}
	p.totalItems = totalItems
}
