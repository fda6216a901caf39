package out

import (
	"context"

	"deskcoach/internal/modules/reminder/domain"
	trackingin "deskcoach/internal/modules/tracking/port/in"
)

// TrackingHistoryAdapter satisfies the reminder module's PostureHistory
// port with the tracking module's recorded history.
type TrackingHistoryAdapter struct {
	tracking trackingin.Usecase
}

func NewTrackingHistoryAdapter(tracking trackingin.Usecase) *TrackingHistoryAdapter {
	return &TrackingHistoryAdapter{tracking: tracking}
}

func (a *TrackingHistoryAdapter) RecentSamples(ctx context.Context, limit int) ([]domain.Sample, error) {
	samples, err := a.tracking.RecentSamples(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Sample, 0, len(samples))
	for _, s := range samples {
		out = append(out, domain.Sample{TS: s.TS, HeightMM: s.HeightMM})
	}
	return out, nil
}

func (a *TrackingHistoryAdapter) LastLongLockUnlock(ctx context.Context, minMinutes int) (int64, error) {
	return a.tracking.LastLongLockUnlock(ctx, minMinutes)
}
