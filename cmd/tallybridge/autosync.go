package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tallybridge/tallybridge/internal/cli"
	"github.com/tallybridge/tallybridge/internal/history"
	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/syncjob"
)

func autosyncCmd() *cobra.Command {
	var (
		interval time.Duration
		full     bool
	)

	cmd := &cobra.Command{
		Use:   "autosync",
		Short: "Sync every synced company on a fixed schedule",
		Long: `Run incremental batch syncs forever at the given interval. The
interval must be set explicitly, on the flag or as 'autosync.interval'
in the config; there is no built-in default.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				interval = viper.GetDuration("autosync.interval")
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}
			store, err := openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mode := model.ModeIncremental
			if full {
				mode = model.ModeFull
			}

			sink := syncjob.NewMultiSink(
				cli.NewProgressReporter(os.Stderr),
				history.NewRecorder(store, mode),
			)
			controller := syncjob.New(client, sink, syncjob.NewTickerScheduler())
			defer controller.Stop()

			runner, err := syncjob.NewAutoSync(controller, syncjob.NewTickerScheduler(), syncjob.AutoSyncConfig{
				Companies: companiesForBatch(client),
				Interval:  interval,
				Mode:      mode,
			})
			if err != nil {
				return err
			}

			runner.Start(cmd.Context())
			defer runner.Stop()

			fmt.Fprintf(os.Stderr, "Auto-sync running every %s. Press Ctrl+C to stop.\n", interval)
			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "time between sync rounds (e.g. 15m)")
	cmd.Flags().BoolVar(&full, "full", false, "run full re-syncs instead of incremental")

	return cmd
}
