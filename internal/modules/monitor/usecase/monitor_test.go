package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	reminderdto "deskcoach/internal/modules/reminder/dto"
	trackingdto "deskcoach/internal/modules/tracking/dto"
	"deskcoach/internal/platform/apperrors"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeSource struct {
	heightMM int
	err      error
	calls    int
}

func (s *fakeSource) HeightMM(ctx context.Context) (int, error) {
	s.calls++
	return s.heightMM, s.err
}

type fakeScheduler struct {
	interval time.Duration
	job      func()
	started  bool
	stopped  bool
}

func (s *fakeScheduler) Every(interval time.Duration, job func()) error {
	s.interval = interval
	s.job = job
	return nil
}
func (s *fakeScheduler) Start() { s.started = true }
func (s *fakeScheduler) Stop()  { s.stopped = true }

type fakeWatcher struct {
	unlocked bool
	startErr error
	onChange func(locked bool)
	stopped  bool
}

func (w *fakeWatcher) Start(onChange func(locked bool)) error {
	w.onChange = onChange
	return w.startErr
}
func (w *fakeWatcher) Stop()          { w.stopped = true }
func (w *fakeWatcher) Unlocked() bool { return w.unlocked }

type recordedMeasurement struct {
	ts       int64
	heightMM int
}

type recordedEvent struct {
	ts   int64
	kind string
}

type fakeTracking struct {
	measurements []recordedMeasurement
	events       []recordedEvent
	recordErr    error
}

func (t *fakeTracking) RecordMeasurement(ctx context.Context, ts int64, heightMM int) error {
	if t.recordErr != nil {
		return t.recordErr
	}
	t.measurements = append(t.measurements, recordedMeasurement{ts: ts, heightMM: heightMM})
	return nil
}

func (t *fakeTracking) RecordSessionEvent(ctx context.Context, ts int64, kind string) error {
	t.events = append(t.events, recordedEvent{ts: ts, kind: kind})
	return nil
}

func (t *fakeTracking) TodayStats(ctx context.Context, standThresholdMM int) (trackingdto.StatsOutput, error) {
	return trackingdto.StatsOutput{}, nil
}

func (t *fakeTracking) YesterdayStats(ctx context.Context, standThresholdMM int) (trackingdto.StatsOutput, error) {
	return trackingdto.StatsOutput{}, nil
}

func (t *fakeTracking) EnsureDaily(ctx context.Context, date string, standThresholdMM int) (trackingdto.StatsOutput, error) {
	return trackingdto.StatsOutput{}, nil
}

func (t *fakeTracking) Backfill(ctx context.Context, standThresholdMM int) error       { return nil }
func (t *fakeTracking) RecalculateAll(ctx context.Context, standThresholdMM int) error { return nil }

func (t *fakeTracking) RecalculateAsync(ctx context.Context, standThresholdMM int) func() bool {
	return func() bool { return true }
}

func (t *fakeTracking) RecentSamples(ctx context.Context, limit int) ([]trackingdto.SampleOutput, error) {
	return nil, nil
}

func (t *fakeTracking) LastLongLockUnlock(ctx context.Context, minMinutes int) (int64, error) {
	return 0, apperrors.ErrNotFound
}

type reminderCall struct {
	name string
	ts   int64
}

type fakeReminder struct {
	calls []reminderCall
}

func (r *fakeReminder) HandleMeasurement(ctx context.Context, ts int64, heightMM int) {
	r.calls = append(r.calls, reminderCall{name: "measurement", ts: ts})
}
func (r *fakeReminder) Locked()                               { r.calls = append(r.calls, reminderCall{name: "locked"}) }
func (r *fakeReminder) Unlocked()                             { r.calls = append(r.calls, reminderCall{name: "unlocked"}) }
func (r *fakeReminder) Snooze(minutes int)                    {}
func (r *fakeReminder) Snoozed() bool                         { return false }
func (r *fakeReminder) SetConfig(cfg reminderdto.ConfigInput) {}

func newTestInteractor(clk *fakeClock, source *fakeSource, scheduler *fakeScheduler, watcher *fakeWatcher, tracking *fakeTracking, reminder *fakeReminder) *Interactor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewInteractor(clk, logger, source, scheduler, watcher, tracking, reminder, 12*time.Second).(*Interactor)
}

func TestTickRecordsAndEvaluates(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)}
	source := &fakeSource{heightMM: 1080}
	tracking := &fakeTracking{}
	reminder := &fakeReminder{}
	i := newTestInteractor(clk, source, &fakeScheduler{}, &fakeWatcher{unlocked: true}, tracking, reminder)

	i.Tick(context.Background())

	if len(tracking.measurements) != 1 {
		t.Fatalf("got %d measurements, want 1", len(tracking.measurements))
	}
	want := recordedMeasurement{ts: clk.now.Unix(), heightMM: 1080}
	if tracking.measurements[0] != want {
		t.Fatalf("got measurement %+v, want %+v", tracking.measurements[0], want)
	}
	if len(reminder.calls) != 1 || reminder.calls[0].name != "measurement" || reminder.calls[0].ts != clk.now.Unix() {
		t.Fatalf("got reminder calls %+v, want one measurement at %d", reminder.calls, clk.now.Unix())
	}
}

func TestTickSkipsWhileLocked(t *testing.T) {
	t.Parallel()

	source := &fakeSource{heightMM: 720}
	tracking := &fakeTracking{}
	reminder := &fakeReminder{}
	i := newTestInteractor(&fakeClock{now: time.Now()}, source, &fakeScheduler{}, &fakeWatcher{unlocked: false}, tracking, reminder)

	i.Tick(context.Background())

	if source.calls != 0 {
		t.Fatalf("got %d fetches while locked, want 0", source.calls)
	}
	if len(tracking.measurements) != 0 || len(reminder.calls) != 0 {
		t.Fatal("locked tick must not record or evaluate")
	}
}

func TestTickSkipsEvaluationOnFetchFailure(t *testing.T) {
	t.Parallel()

	source := &fakeSource{err: errors.New("connection refused")}
	tracking := &fakeTracking{}
	reminder := &fakeReminder{}
	i := newTestInteractor(&fakeClock{now: time.Now()}, source, &fakeScheduler{}, &fakeWatcher{unlocked: true}, tracking, reminder)

	i.Tick(context.Background())

	if len(tracking.measurements) != 0 || len(reminder.calls) != 0 {
		t.Fatal("failed fetch must not record or evaluate")
	}
}

func TestTickSkipsEvaluationWhenPersistFails(t *testing.T) {
	t.Parallel()

	tracking := &fakeTracking{recordErr: errors.New("disk full")}
	reminder := &fakeReminder{}
	i := newTestInteractor(&fakeClock{now: time.Now()}, &fakeSource{heightMM: 900}, &fakeScheduler{}, &fakeWatcher{unlocked: true}, tracking, reminder)

	i.Tick(context.Background())

	if len(reminder.calls) != 0 {
		t.Fatal("unpersisted sample must not reach the reminder engine")
	}
}

func TestRunSchedulesTicksAndStopsOnCancel(t *testing.T) {
	t.Parallel()

	scheduler := &fakeScheduler{}
	watcher := &fakeWatcher{unlocked: true}
	tracking := &fakeTracking{}
	i := newTestInteractor(&fakeClock{now: time.Now()}, &fakeSource{heightMM: 700}, scheduler, watcher, tracking, &fakeReminder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := i.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if scheduler.interval != 12*time.Second {
		t.Fatalf("got interval %v, want 12s", scheduler.interval)
	}
	if !scheduler.started || !scheduler.stopped {
		t.Fatalf("scheduler started=%v stopped=%v, want both true", scheduler.started, scheduler.stopped)
	}
	if !watcher.stopped {
		t.Fatal("watcher not stopped")
	}
	if len(tracking.measurements) != 1 {
		t.Fatalf("got %d measurements from the immediate tick, want 1", len(tracking.measurements))
	}
}

func TestRunToleratesUnsupportedWatcher(t *testing.T) {
	t.Parallel()

	watcher := &fakeWatcher{unlocked: true, startErr: apperrors.ErrUnsupported}
	i := newTestInteractor(&fakeClock{now: time.Now()}, &fakeSource{heightMM: 700}, &fakeScheduler{}, watcher, &fakeTracking{}, &fakeReminder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := i.Run(ctx); err != nil {
		t.Fatalf("Run with unsupported watcher: %v", err)
	}
}

func TestRunFailsOnWatcherError(t *testing.T) {
	t.Parallel()

	watcher := &fakeWatcher{startErr: errors.New("dbus unavailable")}
	i := newTestInteractor(&fakeClock{now: time.Now()}, &fakeSource{}, &fakeScheduler{}, watcher, &fakeTracking{}, &fakeReminder{})

	if err := i.Run(context.Background()); err == nil {
		t.Fatal("expected watcher start error to abort Run")
	}
}

func TestLockTransitionsPersistEventsAndForward(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)}
	watcher := &fakeWatcher{unlocked: true}
	tracking := &fakeTracking{}
	reminder := &fakeReminder{}
	i := newTestInteractor(clk, &fakeSource{heightMM: 700}, &fakeScheduler{}, watcher, tracking, reminder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := i.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	watcher.onChange(true)
	watcher.onChange(false)

	if len(tracking.events) != 2 {
		t.Fatalf("got %d session events, want 2", len(tracking.events))
	}
	if tracking.events[0].kind != "LOCK" || tracking.events[1].kind != "UNLOCK" {
		t.Fatalf("got event kinds %q and %q, want LOCK then UNLOCK", tracking.events[0].kind, tracking.events[1].kind)
	}

	var names []string
	for _, c := range reminder.calls {
		if c.name != "measurement" {
			names = append(names, c.name)
		}
	}
	if len(names) != 2 || names[0] != "locked" || names[1] != "unlocked" {
		t.Fatalf("got reminder transitions %v, want [locked unlocked]", names)
	}
}
