package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallybridge/tallybridge/internal/cli"
	"github.com/tallybridge/tallybridge/internal/format"
	"github.com/tallybridge/tallybridge/internal/history"
	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/syncjob"
	"github.com/tallybridge/tallybridge/internal/tabular"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Manage backend sync jobs",
		Long:  `Start, watch, and cancel Tally-to-backend sync jobs, and inspect past runs.`,
	}

	cmd.AddCommand(syncFullCmd())
	cmd.AddCommand(syncIncrementalCmd())
	cmd.AddCommand(syncBatchCmd())
	cmd.AddCommand(syncStatusCmd())
	cmd.AddCommand(syncCancelCmd())
	cmd.AddCommand(syncWatchCmd())
	cmd.AddCommand(syncLogCmd())

	return cmd
}

func syncFullCmd() *cobra.Command {
	var (
		fromDate string
		toDate   string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "full [company]",
		Short: "Run a destructive full re-sync",
		Long:  `Wipe the company's synced data on the backend and re-sync everything from Tally.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			company, err := requireCompany(args)
			if err != nil {
				return err
			}

			notify := cli.NewNotifier(os.Stderr)
			if !yes {
				question := fmt.Sprintf("Full sync wipes the synced data for %q before re-syncing. Continue?", company)
				if !cli.Confirm(os.Stdin, os.Stderr, question) {
					notify.Info("Aborted.")
					return nil
				}
			}

			dateRange, err := parseDateRange(fromDate, toDate)
			if err != nil {
				return err
			}

			return runSync(cmd.Context(), model.ModeFull, []model.BatchItem{
				{Company: company, DateRange: dateRange},
			})
		},
	}

	cmd.Flags().StringVar(&fromDate, "from", "", "sync period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "sync period end (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")

	return cmd
}

func syncIncrementalCmd() *cobra.Command {
	var (
		fromDate string
		toDate   string
	)

	cmd := &cobra.Command{
		Use:   "incremental [company]",
		Short: "Sync changes since the last run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			company, err := requireCompany(args)
			if err != nil {
				return err
			}
			dateRange, err := parseDateRange(fromDate, toDate)
			if err != nil {
				return err
			}

			return runSync(cmd.Context(), model.ModeIncremental, []model.BatchItem{
				{Company: company, DateRange: dateRange},
			})
		},
	}

	cmd.Flags().StringVar(&fromDate, "from", "", "sync period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "sync period end (YYYY-MM-DD)")

	return cmd
}

func syncBatchCmd() *cobra.Command {
	var (
		fromDate string
		toDate   string
		full     bool
	)

	cmd := &cobra.Command{
		Use:   "batch <company>...",
		Short: "Sync several companies in sequence",
		Long: `Start one sync per company, strictly in order, and follow the whole
batch through a single status poll. With no companies given, every
synced company on the backend is included.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dateRange, err := parseDateRange(fromDate, toDate)
			if err != nil {
				return err
			}

			items := make([]model.BatchItem, 0, len(args))
			for _, company := range args {
				items = append(items, model.BatchItem{Company: company, DateRange: dateRange})
			}

			if len(items) == 0 {
				client, clientErr := newAPIClient()
				if clientErr != nil {
					return clientErr
				}
				companies, listErr := fetchWithRetry(cmd.Context(), client.SyncedCompanies)
				if listErr != nil {
					return fmt.Errorf("failed to list companies: %w", listErr)
				}
				for _, company := range companies {
					items = append(items, model.BatchItem{Company: company.Name, DateRange: dateRange})
				}
			}
			if len(items) == 0 {
				return fmt.Errorf("no companies to sync")
			}

			mode := model.ModeIncremental
			if full {
				mode = model.ModeFull
			}
			return runSync(cmd.Context(), mode, items)
		},
	}

	cmd.Flags().StringVar(&fromDate, "from", "", "sync period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "sync period end (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&full, "full", false, "run full re-syncs instead of incremental")

	return cmd
}

// runSync starts the jobs and blocks until the batch settles, recording
// each run in the local history log.
func runSync(ctx context.Context, mode model.JobMode, items []model.BatchItem) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}
	store, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	notify := cli.NewNotifier(os.Stderr)
	waiter := newWaitSink()
	sink := syncjob.NewMultiSink(
		cli.NewProgressReporter(os.Stderr),
		history.NewRecorder(store, mode),
		waiter,
	)

	controller := syncjob.NewWithConfig(client, sink, syncjob.NewTickerScheduler(), syncjob.Config{
		OnSettled: waiter.settleIdle,
	})
	defer controller.Stop()

	if len(items) == 1 {
		item := items[0]
		switch mode {
		case model.ModeFull:
			err = controller.StartFull(ctx, item.Company, item.DateRange)
		default:
			err = controller.StartIncremental(ctx, item.Company, item.DateRange)
		}
	} else {
		err = controller.StartBatch(ctx, mode, items)
	}
	if err != nil {
		return err
	}

	outcome, err := waiter.wait(ctx)
	if err != nil {
		// Interrupted: ask the backend to stop before leaving.
		notify.Warning("Interrupted, cancelling sync...")
		if cancelErr := controller.Cancel(context.Background()); cancelErr != nil {
			notify.Error(cancelErr.Error())
		}
		return err
	}

	switch outcome.state {
	case model.StateCompleted:
		notify.Success(fmt.Sprintf("Sync completed for %s", outcome.company))
	case model.StateFailed:
		return fmt.Errorf("sync failed for %s: %s", outcome.company, outcome.message)
	case model.StateCancelled:
		notify.Warning(fmt.Sprintf("Sync cancelled for %s", outcome.company))
	default:
		notify.Info("Backend settled to idle.")
	}
	return nil
}

func syncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the backend's current sync job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}

			notify := cli.NewNotifier(os.Stdout)
			if status.Status == "idle" || status.Status == "" {
				notify.Info("No sync is running.")
				return nil
			}

			fmt.Printf("Status:    %s\n", status.Status)
			if status.CurrentCompany != "" {
				fmt.Printf("Company:   %s\n", status.CurrentCompany)
			}
			if status.CurrentTable != "" {
				fmt.Printf("Table:     %s\n", status.CurrentTable)
			}
			fmt.Printf("Progress:  %.1f%%\n", status.Progress)
			fmt.Printf("Rows:      %s\n", format.Number(status.RowsProcessed))
			if status.ErrorMessage != "" {
				fmt.Printf("Error:     %s\n", status.ErrorMessage)
			}
			return nil
		},
	}
}

func syncCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the running sync job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			if err := client.Cancel(cmd.Context()); err != nil {
				return err
			}
			cli.NewNotifier(os.Stdout).Success("Cancel requested.")
			return nil
		},
	}
}

func syncWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow a sync started elsewhere",
		Long:  `Attach to the job currently running on the backend and follow its progress until it settles.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			notify := cli.NewNotifier(os.Stderr)
			waiter := newWaitSink()
			sink := syncjob.NewMultiSink(cli.NewProgressReporter(os.Stderr), waiter)
			controller := syncjob.NewWithConfig(client, sink, syncjob.NewTickerScheduler(), syncjob.Config{
				OnSettled: waiter.settleIdle,
			})
			defer controller.Stop()

			controller.Watch(cmd.Context())
			outcome, err := waiter.wait(cmd.Context())
			if err != nil {
				return err
			}

			switch outcome.state {
			case model.StateCompleted:
				notify.Success(fmt.Sprintf("Sync completed for %s", outcome.company))
			case model.StateFailed:
				return fmt.Errorf("sync failed for %s: %s", outcome.company, outcome.message)
			case model.StateCancelled:
				notify.Warning(fmt.Sprintf("Sync cancelled for %s", outcome.company))
			default:
				notify.Info("No sync is running.")
			}
			return nil
		},
	}
}

func syncLogCmd() *cobra.Command {
	var (
		company string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent sync runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.Recent(cmd.Context(), company, limit)
			if err != nil {
				return err
			}

			view, err := tabular.NewWithConfig(syncRunColumns(), tabular.Config{
				PageSize:     20,
				Searchable:   false,
				EmptyMessage: "No sync runs recorded yet",
			})
			if err != nil {
				return err
			}

			records := make([]tabular.Record, 0, len(runs))
			for _, run := range runs {
				records = append(records, syncRunRecord(run))
			}
			view.SetRecords(records)

			fmt.Println(cli.RenderFrame(view))
			return nil
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "only show runs for this company")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show")

	return cmd
}

func syncRunColumns() []tabular.ColumnSpec {
	return []tabular.ColumnSpec{
		{Key: "started_at", Label: "Started"},
		{Key: "company", Label: "Company"},
		{Key: "mode", Label: "Mode"},
		{Key: "status", Label: "Status"},
		{Key: "rows", Label: "Rows", Formatter: formatCount},
		{Key: "error", Label: "Error"},
	}
}

func syncRunRecord(run model.SyncRun) tabular.Record {
	return tabular.Record{
		"started_at": run.StartedAt.Format("02-Jan-2006 15:04"),
		"company":    run.Company,
		"mode":       string(run.Mode),
		"status":     string(run.Status),
		"rows":       run.RowsProcessed,
		"error":      run.ErrorMessage,
	}
}
