package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	monitorin "deskcoach/internal/modules/monitor/port/in"
	monitorout "deskcoach/internal/modules/monitor/port/out"
	reminderin "deskcoach/internal/modules/reminder/port/in"
	trackingin "deskcoach/internal/modules/tracking/port/in"
	"deskcoach/internal/platform/apperrors"
	"deskcoach/internal/platform/clock"
)

// Interactor is the poll loop: on every tick it fetches the desk height,
// persists the sample and hands it to the reminder engine. Lock transitions
// from the watcher are persisted and forwarded the same way.
type Interactor struct {
	clock     clock.Clock
	logger    *slog.Logger
	source    monitorout.HeightSource
	scheduler monitorout.Scheduler
	watcher   monitorout.SessionWatcher
	tracking  trackingin.Usecase
	reminder  reminderin.Usecase
	interval  time.Duration
}

func NewInteractor(clk clock.Clock, logger *slog.Logger, source monitorout.HeightSource, scheduler monitorout.Scheduler, watcher monitorout.SessionWatcher, tracking trackingin.Usecase, reminder reminderin.Usecase, interval time.Duration) monitorin.Usecase {
	return &Interactor{
		clock:     clk,
		logger:    logger,
		source:    source,
		scheduler: scheduler,
		watcher:   watcher,
		tracking:  tracking,
		reminder:  reminder,
		interval:  interval,
	}
}

func (i *Interactor) Tick(ctx context.Context) {
	if !i.watcher.Unlocked() {
		i.logger.Debug("session locked, skipping poll")
		return
	}
	height, err := i.source.HeightMM(ctx)
	if err != nil {
		i.logger.Warn("height fetch failed, no sample this tick", "error", err)
		return
	}
	ts := i.clock.Now().Unix()
	if err := i.tracking.RecordMeasurement(ctx, ts, height); err != nil {
		i.logger.Warn("measurement not persisted, skipping evaluation", "error", err)
		return
	}
	i.reminder.HandleMeasurement(ctx, ts, height)
}

func (i *Interactor) Run(ctx context.Context) error {
	err := i.watcher.Start(func(locked bool) {
		i.onLockChange(ctx, locked)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrUnsupported) {
			return err
		}
		i.logger.Warn("session lock detection unavailable, treating session as always unlocked")
	}

	i.Tick(ctx)
	if err := i.scheduler.Every(i.interval, func() { i.Tick(ctx) }); err != nil {
		return err
	}
	i.scheduler.Start()
	i.logger.Info("monitor running", "interval", i.interval)

	<-ctx.Done()
	i.scheduler.Stop()
	i.watcher.Stop()
	return nil
}

func (i *Interactor) onLockChange(ctx context.Context, locked bool) {
	kind := "UNLOCK"
	if locked {
		kind = "LOCK"
	}
	if err := i.tracking.RecordSessionEvent(ctx, i.clock.Now().Unix(), kind); err != nil {
		i.logger.Debug("session event not persisted", "kind", kind, "error", err)
	}
	if locked {
		i.reminder.Locked()
	} else {
		i.reminder.Unlocked()
	}
	i.logger.Info("session lock state changed", "locked", locked)
}
