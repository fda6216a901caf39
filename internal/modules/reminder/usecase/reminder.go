package usecase

import (
	"context"

	"deskcoach/internal/modules/reminder/domain"
	"deskcoach/internal/modules/reminder/dto"
	reminderin "deskcoach/internal/modules/reminder/port/in"
	"deskcoach/internal/modules/reminder/service"
)

type Interactor struct {
	engine *service.Engine
}

func NewInteractor(engine *service.Engine) reminderin.Usecase {
	return &Interactor{engine: engine}
}

func (i *Interactor) HandleMeasurement(ctx context.Context, ts int64, heightMM int) {
	i.engine.OnNewMeasurement(ctx, ts, heightMM)
}

func (i *Interactor) Locked() {
	i.engine.OnLocked()
}

func (i *Interactor) Unlocked() {
	i.engine.OnUnlocked()
}

func (i *Interactor) Snooze(minutes int) {
	i.engine.Snooze(minutes)
}

func (i *Interactor) Snoozed() bool {
	return i.engine.Snoozed()
}

func (i *Interactor) SetConfig(cfg dto.ConfigInput) {
	i.engine.SetConfig(domain.Config{
		StandThresholdMM:           cfg.StandThresholdMM,
		RemindAfterMinutes:         cfg.RemindAfterMinutes,
		RemindRepeatMinutes:        cfg.RemindRepeatMinutes,
		SnoozeMinutes:              cfg.SnoozeMinutes,
		StandingCheckAfterMinutes:  cfg.StandingCheckAfterMinutes,
		StandingCheckRepeatMinutes: cfg.StandingCheckRepeatMinutes,
		LockResetThresholdMinutes:  cfg.LockResetThresholdMinutes,
	})
}
