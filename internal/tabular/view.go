package tabular

import (
	"fmt"
	"sort"
	"strings"
)

// SetRecords replaces the backing collection and resets to the first page.
func (v *View) SetRecords(records []Record) {
	v.records = records
	v.currentPage = 1
}

// Search sets the filter term. Matching is a case-insensitive substring
// check across every field of a record, not just displayed columns.
// Filtering invalidates prior pagination, so the page resets to 1.
func (v *View) Search(term string) {
	if !v.searchable {
		return
	}
	v.searchTerm = term
	v.currentPage = 1
}

// Sort orders by the given column: a repeated key flips the direction, a
// new key starts ascending. The current page is preserved. A key that no
// longer names a column is bookkept but sorts nothing, so stale UI events
// never fault the view.
func (v *View) Sort(columnKey string) {
	if columnKey == v.sortKey {
		if v.sortDir == Ascending {
			v.sortDir = Descending
		} else {
			v.sortDir = Ascending
		}
		return
	}
	v.sortKey = columnKey
	v.sortDir = Ascending
}

// SortState reports the current sort column and direction.
func (v *View) SortState() (string, SortDirection) {
	return v.sortKey, v.sortDir
}

// GoToPage moves to page n, silently clamping to the valid range.
func (v *View) GoToPage(n int) {
	v.currentPage = clampPage(n, v.totalPages(len(v.filtered())))
}

// CurrentPage returns the page the view is on, clamped to the current
// filtered extent.
func (v *View) CurrentPage() int {
	return clampPage(v.currentPage, v.totalPages(len(v.filtered())))
}

// PageSize returns the fixed page size.
func (v *View) PageSize() int {
	return v.pageSize
}

func clampPage(n, totalPages int) int {
	if n < 1 {
		return 1
	}
	if n > totalPages {
		return totalPages
	}
	return n
}

func (v *View) totalPages(filteredCount int) int {
	if filteredCount == 0 {
		return 1
	}
	return (filteredCount + v.pageSize - 1) / v.pageSize
}

// filtered derives the search-matched, sort-applied sequence. It is
// recomputed on demand and never mutated in place.
func (v *View) filtered() []Record {
	matched := v.records
	if v.searchTerm != "" {
		term := strings.ToLower(v.searchTerm)
		matched = make([]Record, 0, len(v.records))
		for _, rec := range v.records {
			if v.matches(rec, term) {
				matched = append(matched, rec)
			}
		}
	}

	if v.sortKey == "" {
		return matched
	}

	sorted := make([]Record, len(matched))
	copy(sorted, matched)
	sort.SliceStable(sorted, func(i, j int) bool {
		a := rawString(sorted[i][v.sortKey])
		b := rawString(sorted[j][v.sortKey])
		cmp := v.collator.CompareString(a, b)
		if v.sortDir == Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return sorted
}

// matches checks every field's string representation. Child records are
// excluded: in the nested variant, search applies at the parent level only.
func (v *View) matches(rec Record, lowerTerm string) bool {
	for key, val := range rec {
		if v.childKey != "" && key == v.childKey {
			continue
		}
		if strings.Contains(strings.ToLower(rawString(val)), lowerTerm) {
			return true
		}
	}
	return false
}

// rawString coerces a cell value for searching and sorting. Nil and
// missing values become empty strings, never a fault.
func rawString(val any) string {
	if val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprint(val)
}
