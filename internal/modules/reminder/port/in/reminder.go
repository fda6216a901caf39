package in

import (
	"context"

	"deskcoach/internal/modules/reminder/dto"
)

type Usecase interface {
	// HandleMeasurement evaluates the cadence for a freshly recorded
	// sample. It never returns an error: reminders are best-effort and a
	// missed one repeats on the next tick.
	HandleMeasurement(ctx context.Context, ts int64, heightMM int)
	Locked()
	Unlocked()
	Snooze(minutes int)
	Snoozed() bool
	SetConfig(cfg dto.ConfigInput)
}
