package in

import "context"

type Usecase interface {
	// Tick performs one fetch -> persist -> evaluate cycle. Failures are
	// per-tick and logged; the next tick retries naturally.
	Tick(ctx context.Context)
	// Run starts the session watcher and the periodic tick, then blocks
	// until ctx is cancelled.
	Run(ctx context.Context) error
}
