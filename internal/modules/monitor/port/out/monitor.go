package out

import (
	"context"
	"time"
)

// HeightSource fetches the current desk height. A failure means "no sample
// this tick", never a fatal condition.
type HeightSource interface {
	HeightMM(ctx context.Context) (int, error)
}

// Scheduler runs a job at a fixed interval until stopped.
type Scheduler interface {
	Every(interval time.Duration, job func()) error
	Start()
	Stop()
}

// SessionWatcher observes workstation lock state. Implementations invoke
// onChange from their own goroutine on every transition and report the
// current state via Unlocked. Start returns ErrUnsupported where no lock
// detection exists; callers then treat the session as always unlocked.
type SessionWatcher interface {
	Start(onChange func(locked bool)) error
	Stop()
	Unlocked() bool
}
