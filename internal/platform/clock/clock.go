package clock

import "time"

// Clock abstracts time to keep services deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock returns local time: aggregates are keyed by the user's local
// calendar date, so day boundaries must be local midnights.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
