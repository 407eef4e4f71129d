package widget

// PaginationState is the derived, renderable pagination snapshot. Pages are
// 0-indexed internally; VisiblePages carries the 1-indexed labels to render.
type PaginationState struct {
	Enabled      bool
	ShowControls bool
	RowsPerPage  int
	PageWindow   int

	CurrentPage  int
	TotalItems   int
	TotalPages   int
	VisiblePages []int
}

// HasPrev reports whether a previous page exists
func (s PaginationState) HasPrev() bool {
	return s.CurrentPage > 0
}

// HasNext reports whether a next page exists
func (s PaginationState) HasNext() bool {
	return s.CurrentPage < s.TotalPages-1
}

// Bounds returns the [start, end) slice indexes of the current page within
// the result set
func (s PaginationState) Bounds() (int, int) {
	if !s.Enabled {
		return 0, s.TotalItems
	}
	start := s.CurrentPage * s.RowsPerPage
	if start > s.TotalItems {
		start = s.TotalItems
	}
	end := start + s.RowsPerPage
	if end > s.TotalItems {
		end = s.TotalItems
	}
	return start, end
}

// Pager derives pagination from a result set size. It owns the current page
// and clamps it down on every recompute, never up.
type Pager struct {
	cfg        PaginationConfig
	current    int
	totalItems int
}

// NewPager creates a pager for one widget instance
func NewPager(cfg PaginationConfig) *Pager {
	return &Pager{cfg: cfg}
}

// Recompute derives the full state for a result set of totalItems entries
func (p *Pager) Recompute(totalItems int) PaginationState {
	p.totalItems = totalItems

	state := PaginationState{
		Enabled:      p.cfg.Enabled,
		ShowControls: p.cfg.ShowControls,
		RowsPerPage:  p.cfg.RowsPerPage,
		PageWindow:   p.cfg.PageWindow,
		TotalItems:   totalItems,
	}

	if !p.cfg.Enabled {
		p.current = 0
		return state
	}

	state.TotalPages = (totalItems + p.cfg.RowsPerPage - 1) / p.cfg.RowsPerPage

	if p.current >= state.TotalPages {
		p.current = state.TotalPages - 1
	}
	if p.current < 0 {
		p.current = 0
	}
	state.CurrentPage = p.current
	state.VisiblePages = visibleWindow(state.TotalPages, p.cfg.PageWindow, p.current)

	return state
}

// GoToPage moves to page n (0-indexed). Out-of-range requests are ignored;
// the returned state reflects the page actually shown.
func (p *Pager) GoToPage(n int) PaginationState {
	totalPages := 0
	if p.cfg.Enabled {
		totalPages = (p.totalItems + p.cfg.RowsPerPage - 1) / p.cfg.RowsPerPage
	}
	if n >= 0 && n < totalPages {
		p.current = n
	}
	return p.Recompute(p.totalItems)
}

// Reset returns to the first page
func (p *Pager) Reset() {
	p.current = 0
}

// visibleWindow returns the 1-indexed page numbers to render: all pages when
// they fit, otherwise a window of pageWindow entries centered on the current
// page and shifted back into range at the edges.
func visibleWindow(totalPages, pageWindow, currentPage int) []int {
	if totalPages <= 0 {
		return []int{}
	}

	start, end := 1, totalPages
	if totalPages > pageWindow {
		half := pageWindow / 2
		start = currentPage + 1 - half
		if start < 1 {
			start = 1
		}
		end = start + pageWindow - 1
		if end > totalPages {
			end = totalPages
		}
		if end-start+1 < pageWindow {
			start = end - pageWindow + 1
			if start < 1 {
				start = 1
			}
		}
	}

	pages := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		pages = append(pages, n)
	}
	return pages
}
