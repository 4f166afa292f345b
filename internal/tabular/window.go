package tabular

// PageItem is one entry of the pagination strip: either a page number or
// a gap marker.
type PageItem struct {
	Page     int
	Current  bool
	Ellipsis bool
}

// Window builds the pagination strip for the given position: the first
// page, the last page, and the pages within one of current are shown;
// every skipped run collapses into a single ellipsis. A run never
// produces more than one marker, and first/last are never omitted.
func Window(current, total int) []PageItem {
	if total < 1 {
		total = 1
	}
	current = clampPage(current, total)

	keep := func(p int) bool {
		return p == 1 || p == total || (p >= current-1 && p <= current+1)
	}

	items := make([]PageItem, 0, 7)
	prev := 0
	for p := 1; p <= total; p++ {
		if !keep(p) {
			continue
		}
		if prev != 0 && p-prev > 1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		items = append(items, PageItem{Page: p, Current: p == current})
		prev = p
	}
	return items
}
