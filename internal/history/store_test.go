package history

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybridge/tallybridge/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func run(company string, status model.JobState, startedAt time.Time) model.SyncRun {
	return model.SyncRun{
		Company:       company,
		Mode:          model.ModeFull,
		Status:        status,
		RowsProcessed: 100,
		StartedAt:     startedAt,
		FinishedAt:    startedAt.Add(time.Minute),
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, run("Acme Ltd", model.StateCompleted, base)))
	require.NoError(t, store.Record(ctx, run("Globex", model.StateFailed, base.Add(time.Hour))))
	require.NoError(t, store.Record(ctx, run("Acme Ltd", model.StateCancelled, base.Add(2*time.Hour))))

	t.Run("newest first", func(t *testing.T) {
		runs, err := store.Recent(ctx, "", 0)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, model.StateCancelled, runs[0].Status)
		assert.Equal(t, "Globex", runs[1].Company)
	})

	t.Run("company filter", func(t *testing.T) {
		runs, err := store.Recent(ctx, "Acme Ltd", 0)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		for _, r := range runs {
			assert.Equal(t, "Acme Ltd", r.Company)
		}
	})

	t.Run("limit", func(t *testing.T) {
		runs, err := store.Recent(ctx, "", 1)
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})
}

func TestRecordRejectsUnfinishedRun(t *testing.T) {
	store := newTestStore(t)
	err := store.Record(context.Background(), model.SyncRun{
		Company: "Acme Ltd",
		Mode:    model.ModeFull,
		Status:  model.StateRunning,
	})
	require.Error(t, err)
}

func TestLastSuccessful(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, run("Acme Ltd", model.StateCompleted, base)))
	require.NoError(t, store.Record(ctx, run("Acme Ltd", model.StateFailed, base.Add(time.Hour))))

	last, err := store.LastSuccessful(ctx, "Acme Ltd")
	require.NoError(t, err)
	assert.Equal(t, model.StateCompleted, last.Status)
	assert.True(t, base.Equal(last.StartedAt))

	_, err = store.LastSuccessful(ctx, "Globex")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestRecorderStampsRuns(t *testing.T) {
	store := newTestStore(t)
	rec := NewRecorder(store, model.ModeIncremental)

	rec.Progress(model.ProgressUpdate{Company: "Acme Ltd", Percent: 50, RowsProcessed: 4200})
	rec.Completed("Acme Ltd")

	runs, err := store.Recent(context.Background(), "Acme Ltd", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.ModeIncremental, runs[0].Mode)
	assert.Equal(t, model.StateCompleted, runs[0].Status)
	assert.Equal(t, int64(4200), runs[0].RowsProcessed)
}
