package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/tallybridge/tallybridge/internal/format"
	"github.com/tallybridge/tallybridge/internal/model"
)

// ProgressReporter renders sync-job progress as a terminal progress bar.
// It implements service.ProgressSink.
type ProgressReporter struct {
	bar     *progressbar.ProgressBar
	writer  io.Writer
	company string
}

// NewProgressReporter creates a reporter writing to the given writer
// (stderr when nil).
func NewProgressReporter(writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = os.Stderr
	}
	return &ProgressReporter{writer: writer}
}

// Progress updates the bar with the latest poll tick.
func (p *ProgressReporter) Progress(update model.ProgressUpdate) {
	if p.bar == nil || p.company != update.Company {
		p.company = update.Company
		p.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(fmt.Sprintf("[cyan]Syncing %s[reset]", update.Company)),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}

	detail := update.Table
	if update.RowsProcessed > 0 {
		detail = fmt.Sprintf("%s (%s rows)", update.Table, format.Number(update.RowsProcessed))
	}
	if detail != "" {
		p.bar.Describe(fmt.Sprintf("[cyan]Syncing %s[reset] %s", update.Company, detail))
	}
	_ = p.bar.Set(int(update.Percent))
}

// Completed finishes the bar and prints a success notification.
func (p *ProgressReporter) Completed(company string) {
	if p.bar != nil {
		_ = p.bar.Set(100)
		_ = p.bar.Finish()
		fmt.Fprintln(p.writer)
	}
	fmt.Fprintln(p.writer, FormatSuccess("Sync completed for "+company))
	p.reset()
}

// Failed clears the bar and prints the backend's error message.
func (p *ProgressReporter) Failed(company, errorMessage string) {
	if p.bar != nil {
		_ = p.bar.Clear()
	}
	fmt.Fprintln(p.writer, FormatError(fmt.Sprintf("Sync failed for %s: %s", company, errorMessage)))
	p.reset()
}

// Cancelled clears the bar and prints a warning.
func (p *ProgressReporter) Cancelled(company string) {
	if p.bar != nil {
		_ = p.bar.Clear()
	}
	fmt.Fprintln(p.writer, FormatWarning("Sync cancelled for "+company))
	p.reset()
}

func (p *ProgressReporter) reset() {
	p.bar = nil
	p.company = ""
}
