package domain

// OverlapLength returns the length of the intersection of the half-open
// ranges [a0, a1) and [b0, b1). Zero if they are disjoint or either range
// is empty.
func OverlapLength(a0, a1, b0, b1 int64) int64 {
	lo := a0
	if b0 > lo {
		lo = b0
	}
	hi := a1
	if b1 < hi {
		hi = b1
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// SubtractLocked returns the effective unlocked duration of
// [segStart, segEnd) after removing all overlap with locks. Lock intervals
// may overlap the segment and each other redundantly; the result is clamped
// at zero and short-circuits once the cumulative overlap covers the
// segment.
func SubtractLocked(segStart, segEnd int64, locks []LockInterval) int64 {
	length := segEnd - segStart
	if length <= 0 {
		return 0
	}
	if len(locks) == 0 {
		return length
	}
	var cut int64
	for _, l := range locks {
		cut += OverlapLength(segStart, segEnd, l.Start, l.End)
		if cut >= length {
			return 0
		}
	}
	return length - cut
}
