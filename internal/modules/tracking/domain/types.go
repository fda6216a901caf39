package domain

import (
	"fmt"
	"time"
)

// Measurement is one desk height sample. The log is append-only and ordered
// by timestamp; duplicates are tolerated.
type Measurement struct {
	TS       int64 // unix seconds
	HeightMM int
}

// Standing reports whether this sample counts as standing under the given
// height cutoff.
func (m Measurement) Standing(standThresholdMM int) bool {
	return m.HeightMM >= standThresholdMM
}

type EventKind string

const (
	EventLock   EventKind = "LOCK"
	EventUnlock EventKind = "UNLOCK"
)

func (k EventKind) Validate() error {
	if k != EventLock && k != EventUnlock {
		return fmt.Errorf("invalid session event kind %q", k)
	}
	return nil
}

// SessionEvent records a workstation lock or unlock. Strict alternation is
// not enforced; consumers only transition on kind changes.
type SessionEvent struct {
	TS   int64
	Kind EventKind
}

// LockInterval is a derived half-open range [Start, End) during which the
// session was locked. Reconstructed per query window, never persisted.
type LockInterval struct {
	Start int64
	End   int64
}

// DailyAggregate is the cached seated/standing total for one local calendar
// date. Past dates are immutable once computed; today is refreshed on a
// freshness window.
type DailyAggregate struct {
	Date        string // YYYY-MM-DD, local
	SeatedSec   int64
	StandingSec int64
	UpdatedAt   int64 // unix seconds
}

const DateLayout = "2006-01-02"

// DateOf formats t's local calendar date as an aggregate key.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// Midnight returns the local midnight starting t's calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
