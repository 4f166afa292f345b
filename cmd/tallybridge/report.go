package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallybridge/tallybridge/internal/cli"
	"github.com/tallybridge/tallybridge/internal/tabular"
	"github.com/tallybridge/tallybridge/internal/tui"
)

// reportFlags are the viewing options shared by every report command.
type reportFlags struct {
	search      string
	sortKey     string
	desc        bool
	page        int
	pageSize    int
	interactive bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "filter records by substring match")
	cmd.Flags().StringVar(&f.sortKey, "sort", "", "sort by column key")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&f.page, "page", 1, "page to show")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "records per page")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "browse interactively")
}

// render builds the view, applies the flags, and shows it either as a
// one-shot table or in the interactive browser.
func (f *reportFlags) render(title string, columns []tabular.ColumnSpec, cfg tabular.Config, records []tabular.Record) error {
	if f.pageSize > 0 {
		cfg.PageSize = f.pageSize
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = tabular.DefaultConfig().PageSize
	}
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = tabular.DefaultConfig().EmptyMessage
	}

	view, err := tabular.NewWithConfig(columns, cfg)
	if err != nil {
		return err
	}
	view.SetRecords(records)

	if f.search != "" {
		view.Search(f.search)
	}
	if f.sortKey != "" {
		view.Sort(f.sortKey)
		if f.desc {
			view.Sort(f.sortKey)
		}
	}
	view.GoToPage(f.page)

	if f.interactive {
		return tui.Run(title, view)
	}

	fmt.Println(cli.FormatTitle(title))
	fmt.Println(cli.RenderFrame(view))
	return nil
}
