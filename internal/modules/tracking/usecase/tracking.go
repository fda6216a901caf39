package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"deskcoach/internal/modules/tracking/domain"
	"deskcoach/internal/modules/tracking/dto"
	trackingin "deskcoach/internal/modules/tracking/port/in"
	"deskcoach/internal/modules/tracking/service"
)

type Interactor struct {
	svc    *service.TrackingService
	logger *slog.Logger
}

func NewInteractor(svc *service.TrackingService, logger *slog.Logger) trackingin.Usecase {
	return &Interactor{svc: svc, logger: logger}
}

func (i *Interactor) RecordMeasurement(ctx context.Context, ts int64, heightMM int) error {
	return i.svc.RecordMeasurement(ctx, domain.Measurement{TS: ts, HeightMM: heightMM})
}

func (i *Interactor) RecordSessionEvent(ctx context.Context, ts int64, kind string) error {
	return i.svc.RecordSessionEvent(ctx, domain.SessionEvent{TS: ts, Kind: domain.EventKind(kind)})
}

func (i *Interactor) TodayStats(ctx context.Context, standThresholdMM int) (dto.StatsOutput, error) {
	agg, err := i.svc.TodayTotals(ctx, standThresholdMM)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	return toStats(agg), nil
}

func (i *Interactor) YesterdayStats(ctx context.Context, standThresholdMM int) (dto.StatsOutput, error) {
	agg, err := i.svc.YesterdaySameClockTotals(ctx, standThresholdMM)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	return toStats(agg), nil
}

func (i *Interactor) EnsureDaily(ctx context.Context, date string, standThresholdMM int) (dto.StatsOutput, error) {
	day, err := time.ParseInLocation(domain.DateLayout, date, time.Local)
	if err != nil {
		return dto.StatsOutput{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	agg, err := i.svc.EnsureDaily(ctx, day, standThresholdMM)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	return toStats(agg), nil
}

func (i *Interactor) Backfill(ctx context.Context, standThresholdMM int) error {
	i.svc.BackfillPast(ctx, standThresholdMM)
	return nil
}

func (i *Interactor) RecalculateAll(ctx context.Context, standThresholdMM int) error {
	return i.svc.RecalculateAll(ctx, standThresholdMM)
}

// RecalculateAsync runs the full recomputation on its own goroutine so an
// interactive caller is not blocked; completion is observed by polling the
// returned flag, never by blocking.
func (i *Interactor) RecalculateAsync(ctx context.Context, standThresholdMM int) func() bool {
	var done atomic.Bool
	go func() {
		if err := i.svc.RecalculateAll(ctx, standThresholdMM); err != nil {
			i.logger.Warn("background recalculation failed", "error", err)
		}
		done.Store(true)
	}()
	return done.Load
}

func (i *Interactor) RecentSamples(ctx context.Context, limit int) ([]dto.SampleOutput, error) {
	measurements, err := i.svc.RecentMeasurements(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SampleOutput, 0, len(measurements))
	for _, m := range measurements {
		out = append(out, dto.SampleOutput{TS: m.TS, HeightMM: m.HeightMM})
	}
	return out, nil
}

func (i *Interactor) LastLongLockUnlock(ctx context.Context, minMinutes int) (int64, error) {
	return i.svc.LastLongLockUnlock(ctx, time.Duration(minMinutes)*time.Minute)
}

func toStats(agg domain.DailyAggregate) dto.StatsOutput {
	return dto.StatsOutput{Date: agg.Date, SeatedSec: agg.SeatedSec, StandingSec: agg.StandingSec}
}
