package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"deskcoach/internal/modules/reminder/domain"
	"deskcoach/internal/modules/reminder/service"
	"deskcoach/internal/platform/apperrors"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type fakeNotifier struct {
	titles []string
}

func (f *fakeNotifier) Notify(title, _ string) {
	f.titles = append(f.titles, title)
}

type fakeHistory struct {
	samples      []domain.Sample
	samplesErr   error
	longUnlockTS int64 // 0 means none
}

func (f *fakeHistory) RecentSamples(context.Context, int) ([]domain.Sample, error) {
	return f.samples, f.samplesErr
}

func (f *fakeHistory) LastLongLockUnlock(context.Context, int) (int64, error) {
	if f.longUnlockTS == 0 {
		return 0, apperrors.ErrNotFound
	}
	return f.longUnlockTS, nil
}

type fakeSession struct{ locked bool }

func (f *fakeSession) Unlocked() bool { return !f.locked }

func testConfig() domain.Config {
	return domain.Config{
		StandThresholdMM:           900,
		RemindAfterMinutes:         45,
		RemindRepeatMinutes:        5,
		SnoozeMinutes:              30,
		StandingCheckAfterMinutes:  30,
		StandingCheckRepeatMinutes: 30,
		LockResetThresholdMinutes:  5,
	}
}

func newEngine(cfg domain.Config, clk *fakeClock, notifier *fakeNotifier, history *fakeHistory, session *fakeSession) *service.Engine {
	return service.NewEngine(clk, slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, notifier, history, session)
}

func TestSeatedCadence(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	ts := base.Unix()
	cfg := testConfig()
	cfg.RemindAfterMinutes = 1
	cfg.RemindRepeatMinutes = 10

	clk := &fakeClock{now: base}
	notifier := &fakeNotifier{}
	// Seated for an hour before the current sample.
	history := &fakeHistory{samples: []domain.Sample{{TS: ts - 3600, HeightMM: 700}}}
	engine := newEngine(cfg, clk, notifier, history, &fakeSession{})

	engine.OnNewMeasurement(context.Background(), ts, 700)
	if len(notifier.titles) != 1 || notifier.titles[0] != "Stand up" {
		t.Fatalf("expected one stand-up reminder, got %v", notifier.titles)
	}

	// 5 seconds later the cadence timer is still pending.
	clk.now = base.Add(5 * time.Second)
	engine.OnNewMeasurement(context.Background(), ts+5, 700)
	if len(notifier.titles) != 1 {
		t.Fatalf("cadence should suppress repeat, got %v", notifier.titles)
	}

	// Past the repeat interval it fires again.
	clk.now = base.Add(11 * time.Minute)
	engine.OnNewMeasurement(context.Background(), ts+660, 700)
	if len(notifier.titles) != 2 {
		t.Fatalf("expected second reminder after repeat interval, got %v", notifier.titles)
	}
}

func TestSnoozeSuppressesEverything(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	ts := base.Unix()
	cfg := testConfig()
	cfg.RemindAfterMinutes = 1

	clk := &fakeClock{now: base}
	notifier := &fakeNotifier{}
	history := &fakeHistory{samples: []domain.Sample{{TS: ts - 7200, HeightMM: 700}}}
	engine := newEngine(cfg, clk, notifier, history, &fakeSession{})

	engine.Snooze(10)
	if !engine.Snoozed() {
		t.Fatalf("engine should report snoozed")
	}
	engine.OnNewMeasurement(context.Background(), ts, 700)
	if len(notifier.titles) != 0 {
		t.Fatalf("snoozed engine must not notify, got %v", notifier.titles)
	}

	clk.now = base.Add(11 * time.Minute)
	if engine.Snoozed() {
		t.Fatalf("snooze should have expired")
	}
	engine.OnNewMeasurement(context.Background(), ts+660, 700)
	if len(notifier.titles) != 1 {
		t.Fatalf("expired snooze should allow reminders, got %v", notifier.titles)
	}
}

func TestNoEvaluationWhileLocked(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	ts := base.Unix()
	cfg := testConfig()
	cfg.RemindAfterMinutes = 1

	notifier := &fakeNotifier{}
	history := &fakeHistory{samples: []domain.Sample{{TS: ts - 7200, HeightMM: 700}}}
	engine := newEngine(cfg, &fakeClock{now: base}, notifier, history, &fakeSession{locked: true})

	engine.OnNewMeasurement(context.Background(), ts, 700)
	if len(notifier.titles) != 0 {
		t.Fatalf("locked session must suppress reminders, got %v", notifier.titles)
	}
}

func TestLongLockResetsStreak(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	ts := base.Unix()
	cfg := testConfig()

	// Oldest seated sample 5000s back, but a qualifying unlock 300s back
	// clamps the streak to exactly 5 minutes.
	history := &fakeHistory{
		samples:      []domain.Sample{{TS: ts - 5000, HeightMM: 700}},
		longUnlockTS: ts - 300,
	}

	cfg.RemindAfterMinutes = 6
	notifier := &fakeNotifier{}
	engine := newEngine(cfg, &fakeClock{now: base}, notifier, history, &fakeSession{})
	engine.OnNewMeasurement(context.Background(), ts, 700)
	if len(notifier.titles) != 0 {
		t.Fatalf("streak is 5 min, threshold 6: must not fire, got %v", notifier.titles)
	}

	cfg.RemindAfterMinutes = 5
	notifier = &fakeNotifier{}
	engine = newEngine(cfg, &fakeClock{now: base}, notifier, history, &fakeSession{})
	engine.OnNewMeasurement(context.Background(), ts, 700)
	if len(notifier.titles) != 1 {
		t.Fatalf("streak is exactly 5 min, threshold 5: must fire, got %v", notifier.titles)
	}
}

func TestPostureSwitchResetsOppositeCadence(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	ts := base.Unix()
	cfg := testConfig()
	cfg.RemindAfterMinutes = 1
	cfg.RemindRepeatMinutes = 60

	clk := &fakeClock{now: base}
	notifier := &fakeNotifier{}
	history := &fakeHistory{samples: []domain.Sample{{TS: ts - 7200, HeightMM: 700}}}
	engine := newEngine(cfg, clk, notifier, history, &fakeSession{})

	engine.OnNewMeasurement(context.Background(), ts, 700)
	if len(notifier.titles) != 1 {
		t.Fatalf("expected initial reminder, got %v", notifier.titles)
	}

	// Standing clears the seated cadence timer.
	clk.now = base.Add(time.Minute)
	engine.OnNewMeasurement(context.Background(), ts+60, 1100)

	// Back to seated: the long-repeat timer must not survive the switch.
	clk.now = base.Add(2 * time.Minute)
	engine.OnNewMeasurement(context.Background(), ts+120, 700)
	if len(notifier.titles) != 2 {
		t.Fatalf("cadence must reset on posture switch, got %v", notifier.titles)
	}
}

func TestLockPauseShiftsDeadlines(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	ts := base.Unix()
	cfg := testConfig()
	cfg.RemindAfterMinutes = 1
	cfg.RemindRepeatMinutes = 10

	clk := &fakeClock{now: base}
	notifier := &fakeNotifier{}
	history := &fakeHistory{samples: []domain.Sample{{TS: ts - 7200, HeightMM: 700}}}
	engine := newEngine(cfg, clk, notifier, history, &fakeSession{})

	engine.OnNewMeasurement(context.Background(), ts, 700)
	if len(notifier.titles) != 1 {
		t.Fatalf("expected initial reminder, got %v", notifier.titles)
	}

	// A 5-minute lock pauses the 10-minute repeat cadence.
	clk.now = base.Add(2 * time.Minute)
	engine.OnLocked()
	clk.now = base.Add(7 * time.Minute)
	engine.OnUnlocked()

	// 11 minutes after the first reminder, but only 6 unlocked minutes of
	// cadence have elapsed.
	clk.now = base.Add(11 * time.Minute)
	engine.OnNewMeasurement(context.Background(), ts+660, 700)
	if len(notifier.titles) != 1 {
		t.Fatalf("paused cadence must not fire yet, got %v", notifier.titles)
	}

	clk.now = base.Add(16 * time.Minute)
	engine.OnNewMeasurement(context.Background(), ts+960, 700)
	if len(notifier.titles) != 2 {
		t.Fatalf("shifted cadence should fire now, got %v", notifier.titles)
	}
}

func TestStreakScanFailureDegradesToZero(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	cfg := testConfig()
	cfg.RemindAfterMinutes = 1

	notifier := &fakeNotifier{}
	history := &fakeHistory{samplesErr: errors.New("db closed")}
	engine := newEngine(cfg, &fakeClock{now: base}, notifier, history, &fakeSession{})

	engine.OnNewMeasurement(context.Background(), base.Unix(), 700)
	if len(notifier.titles) != 0 {
		t.Fatalf("unknown streak must not fire, got %v", notifier.titles)
	}
}
