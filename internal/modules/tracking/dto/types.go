package dto

type StatsOutput struct {
	Date        string
	SeatedSec   int64
	StandingSec int64
}

type SampleOutput struct {
	TS       int64
	HeightMM int
}
