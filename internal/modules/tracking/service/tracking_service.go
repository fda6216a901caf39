package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"deskcoach/internal/modules/tracking/domain"
	trackingout "deskcoach/internal/modules/tracking/port/out"
	"deskcoach/internal/platform/apperrors"
	"deskcoach/internal/platform/clock"
)

// TrackingService owns posture-time accounting: raw sample persistence,
// lock interval reconstruction and the daily aggregate cache.
type TrackingService struct {
	clock        clock.Clock
	logger       *slog.Logger
	measurements trackingout.MeasurementStore
	events       trackingout.SessionEventStore
	aggregates   trackingout.AggregateStore
	freshness    time.Duration
}

func NewTrackingService(clk clock.Clock, logger *slog.Logger, measurements trackingout.MeasurementStore, events trackingout.SessionEventStore, aggregates trackingout.AggregateStore, freshness time.Duration) *TrackingService {
	return &TrackingService{
		clock:        clk,
		logger:       logger,
		measurements: measurements,
		events:       events,
		aggregates:   aggregates,
		freshness:    freshness,
	}
}

func (s *TrackingService) RecordMeasurement(ctx context.Context, m domain.Measurement) error {
	if m.TS <= 0 || m.HeightMM <= 0 {
		return fmt.Errorf("%w: measurement ts and height must be positive", apperrors.ErrInvalidInput)
	}
	return s.measurements.InsertMeasurement(ctx, m)
}

func (s *TrackingService) RecordSessionEvent(ctx context.Context, ev domain.SessionEvent) error {
	if err := ev.Kind.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if ev.TS <= 0 {
		return fmt.Errorf("%w: event ts must be positive", apperrors.ErrInvalidInput)
	}
	return s.events.InsertSessionEvent(ctx, ev)
}

// LockIntervalsFor reconstructs lock intervals for [start, end). Any storage
// failure degrades to "never locked": assuming locked when uncertain would
// silently discard desk time.
func (s *TrackingService) LockIntervalsFor(ctx context.Context, start, end int64) []domain.LockInterval {
	startLocked := false
	latest, err := s.events.LatestEventAtOrBefore(ctx, start)
	switch {
	case err == nil:
		startLocked = latest.Kind == domain.EventLock
	case err == apperrors.ErrNotFound:
		// no events before the window
	default:
		s.logger.Debug("lock reconstruction failed open", "error", err)
		return nil
	}

	events, err := s.events.EventsBetween(ctx, start, end)
	if err != nil {
		s.logger.Debug("lock reconstruction failed open", "error", err)
		return nil
	}
	return domain.ReconstructLockIntervals(startLocked, events, start, end)
}

// ComputeForRange aggregates seated/standing seconds for [start, end)
// without touching the cache.
func (s *TrackingService) ComputeForRange(ctx context.Context, start, end int64, standThresholdMM int) (seatedSec, standingSec int64, err error) {
	measurements, err := s.measurements.MeasurementsBetween(ctx, start, end)
	if err != nil {
		return 0, 0, err
	}
	locks := s.LockIntervalsFor(ctx, start, end)
	seatedSec, standingSec = domain.AccumulateSitStand(measurements, locks, standThresholdMM, end)
	return seatedSec, standingSec, nil
}

// TodayTotals returns today's aggregate, serving the cached row while it is
// within the freshness window and recomputing from midnight otherwise.
func (s *TrackingService) TodayTotals(ctx context.Context, standThresholdMM int) (domain.DailyAggregate, error) {
	now := s.clock.Now()
	date := domain.DateOf(now)

	cached, err := s.aggregates.GetDailyAggregate(ctx, date)
	if err == nil && now.Unix()-cached.UpdatedAt <= int64(s.freshness/time.Second) {
		return cached, nil
	}
	if err != nil && err != apperrors.ErrNotFound {
		s.logger.Debug("aggregate cache read failed, recomputing", "date", date, "error", err)
	}

	seated, standing, err := s.ComputeForRange(ctx, domain.Midnight(now).Unix(), now.Unix(), standThresholdMM)
	if err != nil {
		return domain.DailyAggregate{}, err
	}
	agg := domain.DailyAggregate{Date: date, SeatedSec: seated, StandingSec: standing, UpdatedAt: now.Unix()}
	if err := s.aggregates.UpsertDailyAggregate(ctx, agg); err != nil {
		return domain.DailyAggregate{}, err
	}
	return agg, nil
}

// YesterdaySameClockTotals aggregates yesterday from midnight up to the same
// clock time as now. The window is never the same twice, so it is computed
// on the fly and not cached.
func (s *TrackingService) YesterdaySameClockTotals(ctx context.Context, standThresholdMM int) (domain.DailyAggregate, error) {
	now := s.clock.Now()
	midnight := domain.Midnight(now)
	yesterdayMidnight := midnight.AddDate(0, 0, -1)

	start := yesterdayMidnight.Unix()
	end := start + (now.Unix() - midnight.Unix())
	seated, standing, err := s.ComputeForRange(ctx, start, end, standThresholdMM)
	if err != nil {
		return domain.DailyAggregate{}, err
	}
	return domain.DailyAggregate{
		Date:        domain.DateOf(yesterdayMidnight),
		SeatedSec:   seated,
		StandingSec: standing,
		UpdatedAt:   now.Unix(),
	}, nil
}

// EnsureDaily returns the cached aggregate for a full day, computing and
// persisting it once if absent. Past days are immutable after this: callers
// comparing trends rely on a stable denominator.
func (s *TrackingService) EnsureDaily(ctx context.Context, day time.Time, standThresholdMM int) (domain.DailyAggregate, error) {
	date := domain.DateOf(day)
	cached, err := s.aggregates.GetDailyAggregate(ctx, date)
	if err == nil {
		return cached, nil
	}
	if err != apperrors.ErrNotFound {
		return domain.DailyAggregate{}, err
	}

	midnight := domain.Midnight(day)
	seated, standing, err := s.ComputeForRange(ctx, midnight.Unix(), midnight.AddDate(0, 0, 1).Unix(), standThresholdMM)
	if err != nil {
		return domain.DailyAggregate{}, err
	}
	agg := domain.DailyAggregate{Date: date, SeatedSec: seated, StandingSec: standing, UpdatedAt: s.clock.Now().Unix()}
	if err := s.aggregates.UpsertDailyAggregate(ctx, agg); err != nil {
		return domain.DailyAggregate{}, err
	}
	return agg, nil
}

// BackfillPast fills the aggregate cache for every date from the earliest
// measurement up to (not including) today. Best-effort: the first failure
// abandons the rest quietly, this is a background convenience.
func (s *TrackingService) BackfillPast(ctx context.Context, standThresholdMM int) {
	earliest, err := s.measurements.EarliestMeasurement(ctx)
	if err != nil {
		if err != apperrors.ErrNoData {
			s.logger.Warn("backfill skipped", "error", err)
		}
		return
	}

	now := s.clock.Now()
	today := domain.DateOf(now)
	day := domain.Midnight(time.Unix(earliest.TS, 0).In(now.Location()))
	for domain.DateOf(day) < today {
		if _, err := s.EnsureDaily(ctx, day, standThresholdMM); err != nil {
			s.logger.Warn("backfill aborted", "date", domain.DateOf(day), "error", err)
			return
		}
		day = day.AddDate(0, 0, 1)
	}
}

// RecalculateAll clears the cache and rebuilds it, finishing with a forced
// recompute of today. A failed clear is non-fatal: the backfill repopulates
// on top and today is overwritten regardless.
func (s *TrackingService) RecalculateAll(ctx context.Context, standThresholdMM int) error {
	if err := s.aggregates.DeleteAllDailyAggregates(ctx); err != nil {
		s.logger.Warn("aggregate cache clear failed, recalculating anyway", "error", err)
	}
	s.BackfillPast(ctx, standThresholdMM)

	now := s.clock.Now()
	seated, standing, err := s.ComputeForRange(ctx, domain.Midnight(now).Unix(), now.Unix(), standThresholdMM)
	if err != nil {
		return err
	}
	return s.aggregates.UpsertDailyAggregate(ctx, domain.DailyAggregate{
		Date:        domain.DateOf(now),
		SeatedSec:   seated,
		StandingSec: standing,
		UpdatedAt:   now.Unix(),
	})
}

// RecentMeasurements exposes the newest-first sample history used by streak
// scans.
func (s *TrackingService) RecentMeasurements(ctx context.Context, limit int) ([]domain.Measurement, error) {
	return s.measurements.RecentMeasurements(ctx, limit)
}

// LastLongLockUnlock finds the most recent UNLOCK whose preceding LOCK
// lasted at least minDuration, walking back past shorter lock/unlock pairs.
// ErrNotFound when no such pair exists.
func (s *TrackingService) LastLongLockUnlock(ctx context.Context, minDuration time.Duration) (int64, error) {
	const maxPairs = 64
	minSec := int64(minDuration / time.Second)
	at := s.clock.Now().Unix()
	for i := 0; i < maxPairs; i++ {
		unlock, err := s.events.LatestEventOfKind(ctx, domain.EventUnlock, at)
		if err != nil {
			return 0, err
		}
		lock, err := s.events.LatestEventOfKind(ctx, domain.EventLock, unlock.TS)
		if err != nil {
			return 0, err
		}
		if unlock.TS-lock.TS >= minSec {
			return unlock.TS, nil
		}
		at = unlock.TS - 1
	}
	return 0, apperrors.ErrNotFound
}
