package in

import (
	"context"

	"deskcoach/internal/modules/tracking/dto"
	trackingin "deskcoach/internal/modules/tracking/port/in"
)

type CLIHandler struct {
	usecase trackingin.Usecase
}

func NewCLIHandler(usecase trackingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) TodayStats(ctx context.Context, standThresholdMM int) (dto.StatsOutput, error) {
	return h.usecase.TodayStats(ctx, standThresholdMM)
}

func (h CLIHandler) YesterdayStats(ctx context.Context, standThresholdMM int) (dto.StatsOutput, error) {
	return h.usecase.YesterdayStats(ctx, standThresholdMM)
}

func (h CLIHandler) Recalculate(ctx context.Context, standThresholdMM int) error {
	return h.usecase.RecalculateAll(ctx, standThresholdMM)
}

func (h CLIHandler) Backfill(ctx context.Context, standThresholdMM int) error {
	return h.usecase.Backfill(ctx, standThresholdMM)
}
