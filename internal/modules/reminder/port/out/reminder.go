package out

import (
	"context"

	"deskcoach/internal/modules/reminder/domain"
)

// Notifier delivers a desktop notification. Best-effort: implementations
// never return an error and never block for long.
type Notifier interface {
	Notify(title, message string)
}

// PostureHistory is the slice of recorded history the streak scans need.
type PostureHistory interface {
	// RecentSamples returns up to limit samples, newest first.
	RecentSamples(ctx context.Context, limit int) ([]domain.Sample, error)
	// LastLongLockUnlock returns the most recent UNLOCK timestamp whose
	// preceding LOCK lasted at least minMinutes, or an error when none
	// exists.
	LastLongLockUnlock(ctx context.Context, minMinutes int) (int64, error)
}

// SessionState reports the live lock state of the workstation session.
type SessionState interface {
	Unlocked() bool
}
