package domain

import "fmt"

// Config carries the reminder cadence thresholds. Values are consulted at
// evaluation time, so a config swap takes effect on the next measurement.
type Config struct {
	StandThresholdMM           int
	RemindAfterMinutes         int
	RemindRepeatMinutes        int
	SnoozeMinutes              int
	StandingCheckAfterMinutes  int
	StandingCheckRepeatMinutes int
	LockResetThresholdMinutes  int
}

func (c Config) Validate() error {
	if c.StandThresholdMM <= 0 {
		return fmt.Errorf("stand threshold must be positive")
	}
	if c.RemindAfterMinutes <= 0 || c.RemindRepeatMinutes <= 0 {
		return fmt.Errorf("seated cadence minutes must be positive")
	}
	if c.StandingCheckAfterMinutes <= 0 || c.StandingCheckRepeatMinutes <= 0 {
		return fmt.Errorf("standing cadence minutes must be positive")
	}
	return nil
}

// Sample is a height reading as the streak scanner sees it.
type Sample struct {
	TS       int64
	HeightMM int
}
