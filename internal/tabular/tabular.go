// Package tabular implements the client-side table engine behind every
// report screen: full-text search, single-column sort, and fixed-size
// pagination over an in-memory record collection. The engine renders to
// data, not markup; callers hand a Frame to whatever presentation layer
// they use.
package tabular

import (
	"errors"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Record is one row of tabular data, keyed by column identifiers. Values
// are whatever the backend sent (string, float64, nil); the engine never
// assumes a shape beyond the keys named in the column specs.
type Record = map[string]any

// ColumnSpec describes one table column. Order of specs defines
// left-to-right column order.
type ColumnSpec struct {
	Formatter func(any) string
	Key       string
	Label     string
	Sortable  bool
}

// SortDirection orders a sorted column.
type SortDirection int

// Sort directions.
const (
	Ascending SortDirection = iota
	Descending
)

// Construction errors. These are the only fatal errors the engine
// produces; every later operation degrades instead of failing.
var (
	ErrNoColumns       = errors.New("tabular: at least one column required")
	ErrInvalidPageSize = errors.New("tabular: page size must be at least 1")
)

// Config holds the optional view settings.
type Config struct {
	EmptyMessage string
	ChildKey     string
	PageSize     int
	Searchable   bool
}

// DefaultConfig returns the default view settings.
func DefaultConfig() Config {
	return Config{
		PageSize:     10,
		Searchable:   true,
		EmptyMessage: "No data found",
	}
}

// View derives a paginated, sorted, filtered projection from a backing
// record collection. It is not safe for concurrent use; all report pages
// drive it from a single goroutine.
type View struct {
	collator     *collate.Collator
	sortKey      string
	emptyMessage string
	childKey     string
	records      []Record
	columns      []ColumnSpec
	pageSize     int
	currentPage  int
	searchTerm   string
	sortDir      SortDirection
	searchable   bool
}

// New creates a view with default settings.
func New(columns []ColumnSpec) (*View, error) {
	return NewWithConfig(columns, DefaultConfig())
}

// NewWithConfig creates a view with custom settings.
func NewWithConfig(columns []ColumnSpec, cfg Config) (*View, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	if cfg.PageSize < 1 {
		return nil, ErrInvalidPageSize
	}
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = DefaultConfig().EmptyMessage
	}

	return &View{
		columns:      columns,
		pageSize:     cfg.PageSize,
		searchable:   cfg.Searchable,
		emptyMessage: cfg.EmptyMessage,
		childKey:     cfg.ChildKey,
		currentPage:  1,
		collator:     collate.New(language.English, collate.Numeric, collate.IgnoreCase),
	}, nil
}

// Columns returns the view's column specs in display order.
func (v *View) Columns() []ColumnSpec {
	return v.columns
}

// Searchable reports whether the view accepts search input.
func (v *View) Searchable() bool {
	return v.searchable
}

// EmptyMessage is shown in place of rows when nothing matches.
func (v *View) EmptyMessage() string {
	return v.emptyMessage
}
