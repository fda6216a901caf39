package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"deskcoach/internal/modules/reminder/domain"
	reminderout "deskcoach/internal/modules/reminder/port/out"
	"deskcoach/internal/platform/clock"
)

// streakScanLimit bounds the backward history scan; at one sample a minute
// this covers well over a working day.
const streakScanLimit = 1000

// Engine drives the reminder cadence from measurement samples and
// lock/unlock transitions. State lives for the process lifetime only.
//
// Zero time.Time values mean "unset" for every deadline field. Lock
// callbacks arrive on the session watcher's goroutine, hence the mutex.
type Engine struct {
	clock    clock.Clock
	logger   *slog.Logger
	notifier reminderout.Notifier
	history  reminderout.PostureHistory
	session  reminderout.SessionState

	mu             sync.Mutex
	cfg            domain.Config
	snoozedUntil   time.Time
	nextSeatedAt   time.Time
	nextStandingAt time.Time
	lockStartedAt  time.Time
}

func NewEngine(clk clock.Clock, logger *slog.Logger, cfg domain.Config, notifier reminderout.Notifier, history reminderout.PostureHistory, session reminderout.SessionState) *Engine {
	return &Engine{
		clock:    clk,
		logger:   logger,
		cfg:      cfg,
		notifier: notifier,
		history:  history,
		session:  session,
	}
}

// SetConfig swaps the thresholds. In-flight cadence deadlines are left
// untouched; the new values apply from the next evaluation.
func (e *Engine) SetConfig(cfg domain.Config) {
	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()
}

// OnLocked marks the start of an in-progress lock.
func (e *Engine) OnLocked() {
	e.mu.Lock()
	e.lockStartedAt = e.clock.Now()
	e.mu.Unlock()
}

// OnUnlocked shifts every pending deadline forward by the lock duration, so
// cadences are paused rather than reset while the session is locked.
func (e *Engine) OnUnlocked() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lockStartedAt.IsZero() {
		return
	}
	delta := e.clock.Now().Sub(e.lockStartedAt)
	e.lockStartedAt = time.Time{}
	if !e.snoozedUntil.IsZero() {
		e.snoozedUntil = e.snoozedUntil.Add(delta)
	}
	if !e.nextSeatedAt.IsZero() {
		e.nextSeatedAt = e.nextSeatedAt.Add(delta)
	}
	if !e.nextStandingAt.IsZero() {
		e.nextStandingAt = e.nextStandingAt.Add(delta)
	}
}

// Snooze suppresses both cadences for the given number of minutes (the
// configured default when minutes is not positive).
func (e *Engine) Snooze(minutes int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if minutes <= 0 {
		minutes = e.cfg.SnoozeMinutes
	}
	e.snoozedUntil = e.clock.Now().Add(time.Duration(minutes) * time.Minute)
	e.logger.Info("reminders snoozed", "minutes", minutes, "until", e.snoozedUntil)
}

func (e *Engine) Snoozed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.Now().Before(e.snoozedUntil)
}

// OnNewMeasurement evaluates reminder conditions for a freshly recorded
// sample. All history failures degrade to "streak unknown, assume zero".
func (e *Engine) OnNewMeasurement(ctx context.Context, ts int64, heightMM int) {
	// Live reminders never fire while locked, independent of the
	// paused-deadline bookkeeping.
	if !e.session.Unlocked() {
		return
	}

	e.mu.Lock()
	cfg := e.cfg
	e.mu.Unlock()

	isStanding := heightMM >= cfg.StandThresholdMM
	seatedStreak := 0
	standingStreak := 0
	if isStanding {
		standingStreak = e.streakMinutes(ctx, cfg, ts, true)
	} else {
		seatedStreak = e.streakMinutes(ctx, cfg, ts, false)
	}

	var title, message string
	e.mu.Lock()
	// A determined posture resets the opposite cadence, so a resumed
	// posture always waits its full initial interval again.
	if isStanding {
		e.nextSeatedAt = time.Time{}
	} else {
		e.nextStandingAt = time.Time{}
	}

	now := e.clock.Now()
	if now.Before(e.snoozedUntil) {
		e.mu.Unlock()
		return
	}

	switch {
	case !isStanding && seatedStreak >= cfg.RemindAfterMinutes &&
		(e.nextSeatedAt.IsZero() || !now.Before(e.nextSeatedAt)):
		title = "Stand up"
		message = fmt.Sprintf("You've been seated for %d min.", seatedStreak)
		e.nextSeatedAt = now.Add(time.Duration(cfg.RemindRepeatMinutes) * time.Minute)
	case isStanding && standingStreak >= cfg.StandingCheckAfterMinutes &&
		(e.nextStandingAt.IsZero() || !now.Before(e.nextStandingAt)):
		title = "Posture check"
		message = "You've been standing for a while. Still in a good standing position, or slipping into a protective posture?"
		e.nextStandingAt = now.Add(time.Duration(cfg.StandingCheckRepeatMinutes) * time.Minute)
	}
	e.mu.Unlock()

	if title != "" {
		e.notifier.Notify(title, message)
	}
}

// streakMinutes walks the history backwards from ts until the posture flips,
// then clamps the streak start forward to the last unlock that followed a
// sufficiently long lock: posture before a long absence is not
// representative.
func (e *Engine) streakMinutes(ctx context.Context, cfg domain.Config, ts int64, standing bool) int {
	start := ts
	samples, err := e.history.RecentSamples(ctx, streakScanLimit)
	if err != nil {
		e.logger.Debug("streak scan failed, assuming zero streak", "error", err)
		samples = nil
	}
	for _, m := range samples {
		if m.TS > ts {
			continue
		}
		sampleStanding := m.HeightMM >= cfg.StandThresholdMM
		if sampleStanding != standing {
			break
		}
		start = m.TS
	}

	if unlockTS, err := e.history.LastLongLockUnlock(ctx, cfg.LockResetThresholdMinutes); err == nil && unlockTS > start {
		start = unlockTS
	}

	if start >= ts {
		return 0
	}
	return int((ts - start) / 60)
}
