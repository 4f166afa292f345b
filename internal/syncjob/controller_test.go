package syncjob

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/service"
)

// fakeScheduler is a manual clock: Tick fires the scheduled callback.
type fakeScheduler struct {
	fn        func()
	interval  time.Duration
	scheduled int
	cancels   int
}

func (s *fakeScheduler) Schedule(interval time.Duration, fn func()) service.Cancel {
	s.fn = fn
	s.interval = interval
	s.scheduled++
	return func() {
		s.cancels++
		s.fn = nil
	}
}

func (s *fakeScheduler) Tick() {
	if s.fn != nil {
		s.fn()
	}
}

func (s *fakeScheduler) Active() bool {
	return s.fn != nil
}

// fakeBackend records the order of sync-control calls.
type fakeBackend struct {
	mu          sync.Mutex
	calls       []string
	statuses    []*model.SyncStatus
	statusFn    func() (*model.SyncStatus, error)
	startErr    error
	cancelErr   error
	statusCalls int
}

func (b *fakeBackend) record(call string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call)
}

func (b *fakeBackend) StartFull(_ context.Context, company string, _ *model.DateRange) error {
	b.record("start:" + company)
	if b.startErr != nil {
		return b.startErr
	}
	b.record("ok:" + company)
	return nil
}

func (b *fakeBackend) StartIncremental(ctx context.Context, company string, dateRange *model.DateRange) error {
	return b.StartFull(ctx, company, dateRange)
}

func (b *fakeBackend) Status(_ context.Context) (*model.SyncStatus, error) {
	b.statusCalls++
	if b.statusFn != nil {
		return b.statusFn()
	}
	if len(b.statuses) == 0 {
		return &model.SyncStatus{Status: "running"}, nil
	}
	next := b.statuses[0]
	if len(b.statuses) > 1 {
		b.statuses = b.statuses[1:]
	}
	return next, nil
}

func (b *fakeBackend) Cancel(_ context.Context) error {
	b.record("cancel")
	return b.cancelErr
}

// recorderSink captures everything forwarded to the progress sink.
type recorderSink struct {
	updates   []model.ProgressUpdate
	completed []string
	cancelled []string
	failed    []string
}

func (r *recorderSink) Progress(u model.ProgressUpdate) { r.updates = append(r.updates, u) }
func (r *recorderSink) Completed(company string)        { r.completed = append(r.completed, company) }
func (r *recorderSink) Cancelled(company string)        { r.cancelled = append(r.cancelled, company) }
func (r *recorderSink) Failed(company, msg string) {
	r.failed = append(r.failed, company+": "+msg)
}

func TestStartFull_RunsAndCompletes(t *testing.T) {
	backend := &fakeBackend{statuses: []*model.SyncStatus{
		{Status: "running", Progress: 40, CurrentCompany: "Acme Ltd", CurrentTable: "vouchers", RowsProcessed: 1200},
		{Status: "completed", Progress: 100, CurrentCompany: "Acme Ltd", RowsProcessed: 5000},
	}}
	sched := &fakeScheduler{}
	sink := &recorderSink{}
	settled := 0
	c := NewWithConfig(backend, sink, sched, Config{OnSettled: func() { settled++ }})

	require.NoError(t, c.StartFull(context.Background(), "Acme Ltd", nil))
	assert.Equal(t, model.StateRunning, c.State())
	assert.Equal(t, 1, sched.scheduled)
	assert.Equal(t, time.Second, sched.interval)

	sched.Tick()
	require.Len(t, sink.updates, 1)
	assert.InDelta(t, 40.0, sink.updates[0].Percent, 0.001)
	assert.Equal(t, "vouchers", sink.updates[0].Table)
	assert.Equal(t, int64(1200), sink.updates[0].RowsProcessed)

	sched.Tick()
	assert.Equal(t, []string{"Acme Ltd"}, sink.completed)
	assert.Equal(t, 1, settled)
	assert.Equal(t, model.StateIdle, c.State())
	assert.False(t, sched.Active(), "polling must stop after completion")

	// No further status requests after the terminal tick.
	before := backend.statusCalls
	sched.Tick()
	sched.Tick()
	assert.Equal(t, before, backend.statusCalls)
}

func TestStartFull_RequestFailureStaysIdle(t *testing.T) {
	backend := &fakeBackend{startErr: errors.New("connection refused")}
	sched := &fakeScheduler{}
	c := New(backend, &recorderSink{}, sched)

	err := c.StartFull(context.Background(), "Acme Ltd", nil)
	require.Error(t, err)
	assert.Equal(t, model.StateIdle, c.State())
	assert.Equal(t, 0, sched.scheduled, "a failed start must never poll")
}

func TestPollFailureIsRetriedNextTick(t *testing.T) {
	attempts := 0
	backend := &fakeBackend{}
	backend.statusFn = func() (*model.SyncStatus, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("timeout")
		}
		return &model.SyncStatus{Status: "running", Progress: 10}, nil
	}
	sched := &fakeScheduler{}
	sink := &recorderSink{}
	c := New(backend, sink, sched)

	require.NoError(t, c.StartFull(context.Background(), "Acme Ltd", nil))

	sched.Tick() // fails, swallowed
	assert.Empty(t, sink.updates)
	assert.True(t, sched.Active(), "a single failed poll must not end the loop")

	sched.Tick()
	assert.Len(t, sink.updates, 1)
}

func TestNoOverlappingPolls(t *testing.T) {
	backend := &fakeBackend{}
	sched := &fakeScheduler{}
	c := New(backend, &recorderSink{}, sched)

	// Simulate the interval firing while a status request is still out:
	// the nested tick must be skipped, not queued.
	nested := false
	backend.statusFn = func() (*model.SyncStatus, error) {
		if !nested {
			nested = true
			sched.Tick()
		}
		return &model.SyncStatus{Status: "running"}, nil
	}

	require.NoError(t, c.StartFull(context.Background(), "Acme Ltd", nil))
	sched.Tick()
	assert.Equal(t, 1, backend.statusCalls)
}

func TestCancel(t *testing.T) {
	t.Run("stops polling and reports cancelled", func(t *testing.T) {
		backend := &fakeBackend{}
		sched := &fakeScheduler{}
		sink := &recorderSink{}
		c := New(backend, sink, sched)

		require.NoError(t, c.StartFull(context.Background(), "Acme Ltd", nil))
		require.NoError(t, c.Cancel(context.Background()))

		assert.False(t, sched.Active())
		assert.Equal(t, []string{"Acme Ltd"}, sink.cancelled)
		assert.Equal(t, model.StateIdle, c.State())
	})

	t.Run("request failure surfaces and keeps polling", func(t *testing.T) {
		backend := &fakeBackend{cancelErr: errors.New("boom")}
		sched := &fakeScheduler{}
		c := New(backend, &recorderSink{}, sched)

		require.NoError(t, c.StartFull(context.Background(), "Acme Ltd", nil))
		require.Error(t, c.Cancel(context.Background()))
		assert.True(t, sched.Active())
	})
}

func TestIdleStatusWhileRunningIsBenign(t *testing.T) {
	backend := &fakeBackend{statuses: []*model.SyncStatus{{Status: "idle"}}}
	sched := &fakeScheduler{}
	sink := &recorderSink{}
	c := New(backend, sink, sched)

	require.NoError(t, c.StartFull(context.Background(), "Acme Ltd", nil))
	sched.Tick()

	assert.False(t, sched.Active())
	assert.Empty(t, sink.failed, "a quiet idle settle is not a failure")
	assert.Empty(t, sink.completed)
	assert.Equal(t, model.StateIdle, c.State())
}

func TestFailedStatusSurfacesErrorMessage(t *testing.T) {
	backend := &fakeBackend{statuses: []*model.SyncStatus{
		{Status: "failed", CurrentCompany: "Acme Ltd", ErrorMessage: "tally gateway unreachable"},
	}}
	sched := &fakeScheduler{}
	sink := &recorderSink{}
	c := New(backend, sink, sched)

	require.NoError(t, c.StartFull(context.Background(), "Acme Ltd", nil))
	sched.Tick()

	assert.False(t, sched.Active())
	assert.Equal(t, []string{"Acme Ltd: tally gateway unreachable"}, sink.failed)
	assert.Equal(t, model.StateIdle, c.State())
}

func TestStartBatch_SequentialStartsSingleLoop(t *testing.T) {
	backend := &fakeBackend{}
	sched := &fakeScheduler{}
	c := New(backend, &recorderSink{}, sched)

	items := []model.BatchItem{
		{Company: "Acme Ltd"},
		{Company: "Globex"},
		{Company: "Initech", DateRange: &model.DateRange{}},
	}
	require.NoError(t, c.StartBatch(context.Background(), model.ModeFull, items))

	// Strict sequence: each start resolves before the next is issued.
	assert.Equal(t, []string{
		"start:Acme Ltd", "ok:Acme Ltd",
		"start:Globex", "ok:Globex",
		"start:Initech", "ok:Initech",
	}, backend.calls)

	// One shared loop regardless of batch size.
	assert.Equal(t, 1, sched.scheduled)
	assert.Equal(t, model.StateRunning, c.State())
}

func TestStartBatch_FailureStopsSequence(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	backendErr := errors.New("backend busy")
	// Fail the second start.
	wrapped := &sequencedBackend{inner: &fakeBackend{}, failAt: 2, err: backendErr, calls: &calls}

	c := New(wrapped, &recorderSink{}, sched)
	err := c.StartBatch(context.Background(), model.ModeFull, []model.BatchItem{
		{Company: "Acme Ltd"}, {Company: "Globex"}, {Company: "Initech"},
	})
	require.ErrorIs(t, err, backendErr)
	assert.Equal(t, 2, calls, "no starts after the failed one")
	assert.Equal(t, 0, sched.scheduled)
	assert.Equal(t, model.StateIdle, c.State())
}

func TestNewBatchStopsPreviousLoop(t *testing.T) {
	backend := &fakeBackend{}
	sched := &fakeScheduler{}
	c := New(backend, &recorderSink{}, sched)

	require.NoError(t, c.StartFull(context.Background(), "Acme Ltd", nil))
	require.NoError(t, c.StartBatch(context.Background(), model.ModeIncremental, []model.BatchItem{{Company: "Globex"}}))

	assert.Equal(t, 2, sched.scheduled)
	assert.GreaterOrEqual(t, sched.cancels, 1, "old loop must be stopped before the new one starts")
	assert.True(t, sched.Active())
}

// sequencedBackend fails the nth start call.
type sequencedBackend struct {
	inner  *fakeBackend
	err    error
	calls  *int
	failAt int
}

func (s *sequencedBackend) StartFull(ctx context.Context, company string, dr *model.DateRange) error {
	*s.calls++
	if *s.calls == s.failAt {
		return s.err
	}
	return s.inner.StartFull(ctx, company, dr)
}

func (s *sequencedBackend) StartIncremental(ctx context.Context, company string, dr *model.DateRange) error {
	return s.StartFull(ctx, company, dr)
}

func (s *sequencedBackend) Status(ctx context.Context) (*model.SyncStatus, error) {
	return s.inner.Status(ctx)
}

func (s *sequencedBackend) Cancel(ctx context.Context) error {
	return s.inner.Cancel(ctx)
}

func TestPollTickWithoutSinkDoesNotPanic(t *testing.T) {
	backend := &fakeBackend{statuses: []*model.SyncStatus{{Status: "completed"}}}
	sched := &fakeScheduler{}
	c := New(backend, nil, sched)

	require.NoError(t, c.StartFull(context.Background(), "Acme Ltd", nil))
	assert.NotPanics(t, func() { sched.Tick() })
}

func TestStatusCompanyFallsBackToStarted(t *testing.T) {
	// Some backend builds omit current_company on early ticks.
	backend := &fakeBackend{statuses: []*model.SyncStatus{{Status: "running", Progress: 5}}}
	sched := &fakeScheduler{}
	sink := &recorderSink{}
	c := New(backend, sink, sched)

	require.NoError(t, c.StartFull(context.Background(), "Acme Ltd", nil))
	sched.Tick()
	require.Len(t, sink.updates, 1)
	assert.Equal(t, "Acme Ltd", sink.updates[0].Company)
}

func ExampleGaugeOffset() {
	fmt.Printf("%.2f %.2f %.2f\n", GaugeOffset(0), GaugeOffset(50), GaugeOffset(100))
	// Output: 125.66 62.83 0.00
}
