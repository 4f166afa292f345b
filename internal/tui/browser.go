package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tallybridge/tallybridge/internal/tabular"
)

// Mode represents the current input mode of the browser.
type Mode int

// Browser modes.
const (
	ModeBrowse Mode = iota
	ModeSearch
)

// Browser is an interactive viewer over a tabular view. Arrow keys page
// through records, "/" opens a search prompt, and number keys sort by
// the matching column.
type Browser struct {
	view        *tabular.View
	title       string
	theme       Theme
	searchInput textinput.Model
	table       table.Model
	mode        Mode
	width       int
	height      int
}

// NewBrowser wraps a tabular view in an interactive browser.
func NewBrowser(title string, view *tabular.View) Browser {
	columns := make([]table.Column, 0, len(view.Columns()))
	for _, col := range view.Columns() {
		columns = append(columns, table.Column{Title: col.Label, Width: len(col.Label) + 2})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(view.PageSize()+2),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Default.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = Default.Selected
	t.SetStyles(s)

	searchInput := textinput.New()
	searchInput.Placeholder = "Search..."
	searchInput.CharLimit = 80

	b := Browser{
		view:        view,
		title:       title,
		theme:       Default,
		table:       t,
		searchInput: searchInput,
		mode:        ModeBrowse,
		width:       100,
		height:      view.PageSize() + 8,
	}
	b.resizeColumns()
	return b
}

// CurrentMode reports the current input mode.
func (b Browser) CurrentMode() Mode { return b.mode }

// TabularView exposes the wrapped tabular view, mainly for tests.
func (b Browser) TabularView() *tabular.View { return b.view }

func (b Browser) Init() tea.Cmd { return nil }

// Update handles messages.
func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch b.mode {
		case ModeBrowse:
			return b.handleBrowseKey(msg)
		case ModeSearch:
			return b.handleSearchKey(msg)
		}

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.table.SetHeight(max(3, b.height-6))
		b.resizeColumns()
	}

	return b, nil
}

func (b Browser) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return b, tea.Quit

	case "/":
		if !b.view.Searchable() {
			return b, nil
		}
		b.mode = ModeSearch
		b.searchInput.Focus()
		return b, textinput.Blink

	case "left", "h":
		b.view.GoToPage(b.view.CurrentPage() - 1)

	case "right", "l":
		b.view.GoToPage(b.view.CurrentPage() + 1)

	case "g", "home":
		b.view.GoToPage(1)

	case "G", "end":
		b.view.GoToPage(b.view.Frame().Footer.TotalPages)

	case "esc":
		b.searchInput.SetValue("")
		b.view.Search("")

	default:
		if n := columnIndex(key); n >= 0 && n < len(b.view.Columns()) {
			if col := b.view.Columns()[n]; col.Sortable {
				b.view.Sort(col.Key)
			}
		}
	}
	return b, nil
}

func (b Browser) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		b.view.Search(b.searchInput.Value())
		b.mode = ModeBrowse
		b.searchInput.Blur()

	case "esc":
		b.mode = ModeBrowse
		b.searchInput.Blur()
		b.searchInput.SetValue("")
		b.view.Search("")

	default:
		var cmd tea.Cmd
		b.searchInput, cmd = b.searchInput.Update(msg)
		return b, cmd
	}
	return b, nil
}

// View renders the browser.
func (b Browser) View() string {
	frame := b.view.Frame()

	if b.mode == ModeSearch {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			b.renderHeader(frame),
			b.searchInput.View(),
			b.theme.Hint.Render("Enter to search, Esc to clear"),
		)
	}

	b.table.SetColumns(b.headerColumns())
	b.table.SetRows(b.buildRows(frame))

	body := b.table.View()
	if frame.Empty() {
		body = b.theme.Subtitle.Render(frame.EmptyMessage)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		b.renderHeader(frame),
		body,
		b.renderFooter(frame),
		b.renderHints(),
	)
}

func (b Browser) renderHeader(frame tabular.Frame) string {
	status := fmt.Sprintf("%d entries", frame.Footer.TotalCount)
	if term := b.searchInput.Value(); term != "" && b.mode == ModeBrowse {
		status += fmt.Sprintf(" | search: %q", term)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		b.theme.Title.Render(b.title),
		b.theme.Subtitle.Render(status),
	)
}

// headerColumns rebuilds the column titles so the active sort column
// carries a direction marker.
func (b Browser) headerColumns() []table.Column {
	sortKey, direction := b.view.SortState()
	marker := " ↑"
	if direction == tabular.Descending {
		marker = " ↓"
	}

	columns := make([]table.Column, 0, len(b.view.Columns()))
	for i, col := range b.view.Columns() {
		title := col.Label
		if col.Key == sortKey {
			title += marker
		}
		width := b.columnWidth(i)
		columns = append(columns, table.Column{Title: title, Width: width})
	}
	return columns
}

func (b Browser) buildRows(frame tabular.Frame) []table.Row {
	rows := make([]table.Row, 0, len(frame.Rows))
	for _, r := range frame.Rows {
		rows = append(rows, table.Row(r.Cells))
		for _, child := range r.Children {
			indented := make(table.Row, len(child))
			for i, cell := range child {
				if i == 0 {
					cell = "  " + cell
				}
				indented[i] = cell
			}
			rows = append(rows, indented)
		}
	}
	return rows
}

func (b Browser) renderFooter(frame tabular.Frame) string {
	showing := fmt.Sprintf("Showing %d to %d of %d entries",
		frame.Footer.Start, frame.Footer.End, frame.Footer.TotalCount)

	var strip []string
	for _, item := range frame.Window {
		if item.Ellipsis {
			strip = append(strip, "…")
			continue
		}
		label := fmt.Sprintf("%d", item.Page)
		if item.Current {
			label = b.theme.Selected.Render(label)
		}
		strip = append(strip, label)
	}

	return b.theme.Subtitle.Render(showing) + "  " + strings.Join(strip, " ")
}

func (b Browser) renderHints() string {
	hints := []string{"[←→] Page", "[1-9] Sort", "[/] Search", "[Esc] Clear", "[q] Quit"}
	return b.theme.Hint.Render(strings.Join(hints, "  "))
}

func (b *Browser) resizeColumns() {
	count := len(b.view.Columns())
	if count == 0 {
		return
	}
	available := b.width - 4
	if available < 12*count {
		available = 12 * count
	}
	columns := make([]table.Column, 0, count)
	for _, col := range b.view.Columns() {
		columns = append(columns, table.Column{Title: col.Label, Width: max(10, available/count)})
	}
	b.table.SetColumns(columns)
}

func (b Browser) columnWidth(i int) int {
	count := len(b.view.Columns())
	available := b.width - 4
	if available < 12*count {
		available = 12 * count
	}
	return max(10, available/count)
}

// columnIndex maps the keys "1" through "9" to a zero-based column index.
func columnIndex(key string) int {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return -1
	}
	return int(key[0] - '1')
}
