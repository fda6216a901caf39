package dto

type ConfigInput struct {
	StandThresholdMM           int
	RemindAfterMinutes         int
	RemindRepeatMinutes        int
	SnoozeMinutes              int
	StandingCheckAfterMinutes  int
	StandingCheckRepeatMinutes int
	LockResetThresholdMinutes  int
}
