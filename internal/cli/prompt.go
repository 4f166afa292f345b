package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm asks a yes/no question and reads one answer line. Anything
// other than y/yes declines.
func Confirm(reader io.Reader, writer io.Writer, question string) bool {
	fmt.Fprint(writer, FormatPrompt(question+" [y/N]"))

	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// ConfirmTyped guards destructive actions: the user must type the exact
// phrase (usually the company name) to proceed.
func ConfirmTyped(reader io.Reader, writer io.Writer, warning, phrase string) bool {
	fmt.Fprintln(writer, FormatWarning(warning))
	fmt.Fprint(writer, FormatPrompt(fmt.Sprintf("Type %q to confirm", phrase)))

	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == phrase
}
