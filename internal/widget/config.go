// Package widget implements the catalog/search/download-gate engine that
// drives the document widgets: debounced querying, client-side filtering,
// pagination, the contact-info gate and the file transfer itself.
package widget

import "time"

// Mode selects how a widget instance sources its documents
type Mode int

const (
	// ModeSearch queries the server per term; results are limited to
	// matches for the current term.
	ModeSearch Mode = iota
	// ModeList loads the entire allowed set once and filters locally.
	ModeList
)

// Requirements are the contact fields the download gate collects. All false
// means the gate never shows a form.
type Requirements struct {
	Email bool
	Name  bool
	Phone bool
}

// Any reports whether at least one field is required
func (r Requirements) Any() bool {
	return r.Email || r.Name || r.Phone
}

// PaginationConfig holds the per-instance pagination settings
type PaginationConfig struct {
	Enabled      bool
	RowsPerPage  int
	PageWindow   int
	ShowControls bool
}

// Config is the explicit per-instance widget configuration, passed in at
// construction time. Host pages hand this over once; nothing is read from
// ambient state afterwards.
type Config struct {
	Mode Mode

	// TaxonomySlugs is fixed per instance; users cannot edit it at runtime.
	TaxonomySlugs []string

	MinSearchChars int
	Requirements   Requirements
	Pagination     PaginationConfig

	// Debounce windows. SearchDebounce covers server-backed queries,
	// FilterDebounce the local list-mode filter.
	SearchDebounce time.Duration
	FilterDebounce time.Duration

	// Icons maps file extensions to icon assets; the "file" entry is the
	// fallback for unknown extensions.
	Icons map[string]string
}

// Default windows and limits match the shipped widgets.
const (
	DefaultMinSearchChars = 3
	DefaultSearchDebounce = 500 * time.Millisecond
	DefaultFilterDebounce = 300 * time.Millisecond
	DefaultRowsPerPage    = 50
	DefaultPageWindow     = 10
)

// withDefaults fills in zero-valued settings
func (c Config) withDefaults() Config {
	if c.MinSearchChars <= 0 {
		c.MinSearchChars = DefaultMinSearchChars
	}
	if c.SearchDebounce <= 0 {
		c.SearchDebounce = DefaultSearchDebounce
	}
	if c.FilterDebounce <= 0 {
		c.FilterDebounce = DefaultFilterDebounce
	}
	if c.Pagination.RowsPerPage < 1 {
		c.Pagination.RowsPerPage = DefaultRowsPerPage
	}
	if c.Pagination.PageWindow < 1 {
		c.Pagination.PageWindow = DefaultPageWindow
	}
	return c
}

// IconFor returns the icon asset for an extension, falling back to the
// generic file icon
func (c Config) IconFor(ext string) string {
	if icon, ok := c.Icons[ext]; ok {
		return icon
	}
	return c.Icons["file"]
}
