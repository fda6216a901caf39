package in

import (
	"context"

	"deskcoach/internal/modules/tracking/dto"
)

type Usecase interface {
	RecordMeasurement(ctx context.Context, ts int64, heightMM int) error
	RecordSessionEvent(ctx context.Context, ts int64, kind string) error

	TodayStats(ctx context.Context, standThresholdMM int) (dto.StatsOutput, error)
	YesterdayStats(ctx context.Context, standThresholdMM int) (dto.StatsOutput, error)
	EnsureDaily(ctx context.Context, date string, standThresholdMM int) (dto.StatsOutput, error)
	Backfill(ctx context.Context, standThresholdMM int) error
	RecalculateAll(ctx context.Context, standThresholdMM int) error
	// RecalculateAsync runs RecalculateAll off the caller's goroutine and
	// returns a flag the caller polls for completion.
	RecalculateAsync(ctx context.Context, standThresholdMM int) (done func() bool)

	RecentSamples(ctx context.Context, limit int) ([]dto.SampleOutput, error)
	// LastLongLockUnlock returns the timestamp of the most recent UNLOCK
	// whose preceding LOCK lasted at least minMinutes, or ErrNotFound.
	LastLongLockUnlock(ctx context.Context, minMinutes int) (int64, error)
}
