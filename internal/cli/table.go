package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tallybridge/tallybridge/internal/tabular"
)

// RenderFrame paints one page of a tabular view as a terminal table:
// header, rows (with nested child rows indented), and the footer with
// the windowed page strip.
func RenderFrame(view *tabular.View) string {
	frame := view.Frame()
	columns := view.Columns()

	if frame.Empty() {
		return SubtleStyle.Render(frame.EmptyMessage)
	}

	widths := columnWidths(columns, frame)

	var b strings.Builder
	b.WriteString(renderHeader(view, columns, widths))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(separatorLine(widths)))
	b.WriteString("\n")

	for _, row := range frame.Rows {
		b.WriteString(renderCells(row.Cells, widths, TableCellStyle))
		b.WriteString("\n")
		for _, child := range row.Children {
			b.WriteString("  " + renderCells(child, widths, ChildCellStyle))
			b.WriteString("\n")
		}
	}

	b.WriteString(renderFooter(frame))
	return b.String()
}

func columnWidths(columns []tabular.ColumnSpec, frame tabular.Frame) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = lipgloss.Width(col.Label)
	}
	for _, row := range frame.Rows {
		for i, cell := range row.Cells {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
		for _, child := range row.Children {
			for i, cell := range child {
				if w := lipgloss.Width(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	return widths
}

func renderHeader(view *tabular.View, columns []tabular.ColumnSpec, widths []int) string {
	sortKey, sortDir := view.SortState()
	cells := make([]string, len(columns))
	for i, col := range columns {
		label := col.Label
		if col.Key == sortKey {
			if sortDir == tabular.Ascending {
				label += " ↑"
			} else {
				label += " ↓"
			}
		}
		cells[i] = label
	}
	return renderCells(cells, widths, TableHeaderStyle)
}

func renderCells(cells []string, widths []int, style lipgloss.Style) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		width := 0
		if i < len(widths) {
			width = widths[i]
		}
		padded[i] = style.Render(pad(cell, width))
	}
	return strings.Join(padded, "  ")
}

func separatorLine(widths []int) string {
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	return strings.Repeat("─", total)
}

func pad(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

func renderFooter(frame tabular.Frame) string {
	showing := fmt.Sprintf("Showing %d to %d of %d entries",
		frame.Footer.Start, frame.Footer.End, frame.Footer.TotalCount)

	if frame.Footer.TotalPages <= 1 {
		return SubtleStyle.Render(showing)
	}

	strip := make([]string, 0, len(frame.Window))
	for _, item := range frame.Window {
		switch {
		case item.Ellipsis:
			strip = append(strip, "…")
		case item.Current:
			strip = append(strip, PromptStyle.Render(fmt.Sprintf("[%d]", item.Page)))
		default:
			strip = append(strip, fmt.Sprintf("%d", item.Page))
		}
	}

	return SubtleStyle.Render(showing) + "  " + strings.Join(strip, " ")
}
