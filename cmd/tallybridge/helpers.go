package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/tallybridge/tallybridge/internal/api"
	"github.com/tallybridge/tallybridge/internal/common"
	"github.com/tallybridge/tallybridge/internal/config"
	"github.com/tallybridge/tallybridge/internal/history"
	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/service"
)

const dateLayout = "2006-01-02"

// newAPIClient builds the backend client from configuration.
func newAPIClient() (*api.Client, error) {
	return api.NewClient(api.Config{
		BaseURL: viper.GetString("backend.url"),
		Token:   viper.GetString("backend.token"),
		Timeout: viper.GetDuration("backend.timeout"),
	})
}

// openHistory opens the local sync-run log, creating it on first use.
func openHistory(ctx context.Context) (*history.Store, error) {
	dbPath := viper.GetString("history.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/tallybridge/history.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := history.NewStore(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// requireCompany resolves the company from the positional argument or
// the configured default.
func requireCompany(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if company := viper.GetString("company"); company != "" {
		return company, nil
	}
	return "", &common.UserError{
		UserMessage: "No company given. Pass one as an argument or set 'company' in the config.",
		Err:         common.ErrMissingConfig,
	}
}

// parseDateRange reads --from/--to into a date range. Both or neither
// must be set.
func parseDateRange(from, to string) (*model.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("--from and --to must be given together")
	}
	fromDate, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("invalid --from date %q (want YYYY-MM-DD): %w", from, err)
	}
	toDate, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("invalid --to date %q (want YYYY-MM-DD): %w", to, err)
	}
	if toDate.Before(fromDate) {
		return nil, fmt.Errorf("--to date is before --from date")
	}
	return &model.DateRange{From: fromDate, To: toDate}, nil
}

// reportRetryOptions is the backoff used for report fetches. Sync start
// and cancel requests are never retried; their failures surface
// immediately.
func reportRetryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}

// fetchWithRetry wraps a report fetch in the standard backoff.
func fetchWithRetry[T any](ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	var result T
	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		result, fetchErr = fetch(ctx)
		return fetchErr
	}, reportRetryOptions())
	return result, err
}

// waitSink signals when the observed job reaches a terminal state, so
// commands can block until the sync settles.
type waitSink struct {
	done chan syncOutcome
}

type syncOutcome struct {
	state   model.JobState
	company string
	message string
}

func newWaitSink() *waitSink {
	return &waitSink{done: make(chan syncOutcome, 1)}
}

func (w *waitSink) Progress(model.ProgressUpdate) {}

func (w *waitSink) Completed(company string) {
	w.done <- syncOutcome{state: model.StateCompleted, company: company}
}

func (w *waitSink) Failed(company, errorMessage string) {
	w.done <- syncOutcome{state: model.StateFailed, company: company, message: errorMessage}
}

func (w *waitSink) Cancelled(company string) {
	w.done <- syncOutcome{state: model.StateCancelled, company: company}
}

// settleIdle signals a benign idle settle. Dropped when a terminal
// event already fired, the terminal outcome wins.
func (w *waitSink) settleIdle() {
	select {
	case w.done <- syncOutcome{state: model.StateIdle}:
	default:
	}
}

// wait blocks until the job settles or the context is cancelled.
func (w *waitSink) wait(ctx context.Context) (syncOutcome, error) {
	select {
	case outcome := <-w.done:
		return outcome, nil
	case <-ctx.Done():
		return syncOutcome{}, ctx.Err()
	}
}
