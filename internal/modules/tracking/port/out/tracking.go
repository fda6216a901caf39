package out

import (
	"context"

	"deskcoach/internal/modules/tracking/domain"
)

type MeasurementStore interface {
	InsertMeasurement(ctx context.Context, m domain.Measurement) error
	// MeasurementsBetween returns samples with start <= ts <= end, ascending.
	MeasurementsBetween(ctx context.Context, start, end int64) ([]domain.Measurement, error)
	// RecentMeasurements returns up to limit samples, newest first.
	RecentMeasurements(ctx context.Context, limit int) ([]domain.Measurement, error)
	// EarliestMeasurement returns the oldest sample or ErrNoData.
	EarliestMeasurement(ctx context.Context) (domain.Measurement, error)
}

type SessionEventStore interface {
	InsertSessionEvent(ctx context.Context, ev domain.SessionEvent) error
	// EventsBetween returns events with start < ts <= end, ascending.
	EventsBetween(ctx context.Context, start, end int64) ([]domain.SessionEvent, error)
	// LatestEventAtOrBefore returns the newest event with ts <= at, or ErrNotFound.
	LatestEventAtOrBefore(ctx context.Context, at int64) (domain.SessionEvent, error)
	// LatestEventOfKind returns the newest event of kind with ts <= at, or ErrNotFound.
	LatestEventOfKind(ctx context.Context, kind domain.EventKind, at int64) (domain.SessionEvent, error)
}

type AggregateStore interface {
	UpsertDailyAggregate(ctx context.Context, agg domain.DailyAggregate) error
	// GetDailyAggregate returns the cached row for date or ErrNotFound.
	GetDailyAggregate(ctx context.Context, date string) (domain.DailyAggregate, error)
	DeleteAllDailyAggregates(ctx context.Context) error
}
