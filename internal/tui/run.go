package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tallybridge/tallybridge/internal/tabular"
)

// Run launches the browser in the alternate screen and blocks until the
// user quits.
func Run(title string, view *tabular.View) error {
	p := tea.NewProgram(NewBrowser(title, view), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
