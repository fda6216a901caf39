package domain

// ReconstructLockIntervals turns an ordered event log into lock intervals
// clipped to [windowStart, windowEnd).
//
// startLocked says whether the session was already locked at windowStart
// (the latest event at or before the window start was a LOCK). events must
// be ascending and fall strictly after windowStart and at or before
// windowEnd. Repeated same-kind events cause no state change. An interval
// still open after the last event is closed at windowEnd.
func ReconstructLockIntervals(startLocked bool, events []SessionEvent, windowStart, windowEnd int64) []LockInterval {
	if windowEnd <= windowStart {
		return nil
	}

	var intervals []LockInterval
	locked := startLocked
	currentStart := windowStart

	for _, ev := range events {
		switch {
		case ev.Kind == EventLock && !locked:
			locked = true
			currentStart = ev.TS
			if currentStart < windowStart {
				currentStart = windowStart
			}
		case ev.Kind == EventUnlock && locked:
			end := ev.TS
			if end > windowEnd {
				end = windowEnd
			}
			if end > currentStart {
				intervals = append(intervals, LockInterval{Start: currentStart, End: end})
			}
			locked = false
		}
	}

	if locked && windowEnd > currentStart {
		intervals = append(intervals, LockInterval{Start: currentStart, End: windowEnd})
	}
	return intervals
}
