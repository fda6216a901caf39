package domain

// AccumulateSitStand attributes the time covered by measurements, net of
// locked time, to seated and standing buckets.
//
// Each interval between consecutive samples belongs to the earlier sample's
// posture: the last known posture persists until the next reading. The tail
// [lastSample, endTS) belongs to the last sample. Non-increasing timestamp
// pairs are skipped. With no samples the result is (0, 0); time before the
// first sample is never attributed.
func AccumulateSitStand(measurements []Measurement, locks []LockInterval, standThresholdMM int, endTS int64) (seatedSec, standingSec int64) {
	if endTS <= 0 || len(measurements) == 0 {
		return 0, 0
	}

	attribute := func(m Measurement, effective int64) {
		if effective <= 0 {
			return
		}
		if m.Standing(standThresholdMM) {
			standingSec += effective
		} else {
			seatedSec += effective
		}
	}

	for i := 0; i < len(measurements)-1; i++ {
		m0, m1 := measurements[i], measurements[i+1]
		if m1.TS <= m0.TS {
			continue
		}
		attribute(m0, SubtractLocked(m0.TS, m1.TS, locks))
	}

	last := measurements[len(measurements)-1]
	if endTS > last.TS {
		attribute(last, SubtractLocked(last.TS, endTS, locks))
	}
	return seatedSec, standingSec
}
