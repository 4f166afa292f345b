package tabular

// Row is one rendered record: formatted cell strings in column order,
// plus any child rows (ledger-wise outstanding bills render beneath their
// party, unpaginated and in original order).
type Row struct {
	Cells    []string
	Children [][]string
}

// Footer carries the pagination metadata shown under the table.
// Start and End are 1-based positions into the filtered sequence; both
// are 0 when nothing matched.
type Footer struct {
	Start       int
	End         int
	TotalCount  int
	TotalPages  int
	CurrentPage int
}

// Frame is the minimal projection a presentation layer needs to paint
// the current page.
type Frame struct {
	EmptyMessage string
	Rows         []Row
	Window       []PageItem
	Footer       Footer
}

// Empty reports whether the frame has no rows to show.
func (f Frame) Empty() bool {
	return len(f.Rows) == 0
}

// Frame derives the current page's projection. It never fails: shape
// surprises in the data degrade to empty cells.
func (v *View) Frame() Frame {
	filtered := v.filtered()
	totalPages := v.totalPages(len(filtered))
	page := clampPage(v.currentPage, totalPages)

	start := (page - 1) * v.pageSize
	end := start + v.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	if start > len(filtered) {
		start = len(filtered)
	}

	rows := make([]Row, 0, end-start)
	for _, rec := range filtered[start:end] {
		rows = append(rows, v.renderRow(rec))
	}

	footer := Footer{
		TotalCount:  len(filtered),
		TotalPages:  totalPages,
		CurrentPage: page,
	}
	if len(filtered) > 0 {
		footer.Start = start + 1
		footer.End = end
	}

	return Frame{
		Rows:         rows,
		Footer:       footer,
		Window:       Window(page, totalPages),
		EmptyMessage: v.emptyMessage,
	}
}

func (v *View) renderRow(rec Record) Row {
	row := Row{Cells: v.renderCells(rec)}
	if v.childKey == "" {
		return row
	}

	children, ok := rec[v.childKey].([]map[string]any)
	if !ok {
		return row
	}
	for _, child := range children {
		row.Children = append(row.Children, v.renderCells(child))
	}
	return row
}

func (v *View) renderCells(rec Record) []string {
	cells := make([]string, len(v.columns))
	for i, col := range v.columns {
		val, ok := rec[col.Key]
		if !ok || val == nil {
			cells[i] = ""
			continue
		}
		if col.Formatter != nil {
			cells[i] = col.Formatter(val)
			continue
		}
		cells[i] = rawString(val)
	}
	return cells
}
