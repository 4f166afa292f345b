package cli

import (
	"fmt"
	"io"
	"os"
)

// Notifier prints transient, non-blocking notifications: the terminal
// equivalent of the dashboard's toasts.
type Notifier struct {
	writer io.Writer
}

// NewNotifier creates a notifier. A nil writer defaults to stderr so
// notifications never pollute piped report output.
func NewNotifier(writer io.Writer) *Notifier {
	if writer == nil {
		writer = os.Stderr
	}
	return &Notifier{writer: writer}
}

// Success reports a completed operation.
func (n *Notifier) Success(message string) {
	fmt.Fprintln(n.writer, FormatSuccess(message))
}

// Error reports a failed operation.
func (n *Notifier) Error(message string) {
	fmt.Fprintln(n.writer, FormatError(message))
}

// Warning reports a cautionary condition.
func (n *Notifier) Warning(message string) {
	fmt.Fprintln(n.writer, FormatWarning(message))
}

// Info reports a neutral status update.
func (n *Notifier) Info(message string) {
	fmt.Fprintln(n.writer, FormatInfo(message))
}
