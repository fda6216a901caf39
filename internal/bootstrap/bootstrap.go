package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	monitoroutadapter "deskcoach/internal/modules/monitor/adapter/out"
	monitorin "deskcoach/internal/modules/monitor/port/in"
	monitorusecase "deskcoach/internal/modules/monitor/usecase"
	reminderoutadapter "deskcoach/internal/modules/reminder/adapter/out"
	reminderdomain "deskcoach/internal/modules/reminder/domain"
	reminderin "deskcoach/internal/modules/reminder/port/in"
	reminderservice "deskcoach/internal/modules/reminder/service"
	reminderusecase "deskcoach/internal/modules/reminder/usecase"
	trackinginadapter "deskcoach/internal/modules/tracking/adapter/in"
	trackingoutadapter "deskcoach/internal/modules/tracking/adapter/out"
	trackingin "deskcoach/internal/modules/tracking/port/in"
	trackingservice "deskcoach/internal/modules/tracking/service"
	trackingusecase "deskcoach/internal/modules/tracking/usecase"
	"deskcoach/internal/platform/clock"
	"deskcoach/internal/platform/config"
	uiapp "deskcoach/internal/ui/app"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	TrackingCLI trackinginadapter.CLIHandler
	Tracking    trackingin.Usecase
	Reminder    reminderin.Usecase
	Monitor     monitorin.Usecase

	store *trackingoutadapter.SQLiteStore
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	clk := clock.SystemClock{}

	store, err := trackingoutadapter.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	trackingSvc := trackingservice.NewTrackingService(
		clk, logger, store, store, store,
		time.Duration(cfg.TodayFreshnessSeconds)*time.Second,
	)
	trackingUC := trackingusecase.NewInteractor(trackingSvc, logger)

	reminderCfg := reminderdomain.Config{
		StandThresholdMM:           cfg.StandThresholdMM,
		RemindAfterMinutes:         cfg.RemindAfterMinutes,
		RemindRepeatMinutes:        cfg.RemindRepeatMinutes,
		SnoozeMinutes:              cfg.SnoozeMinutes,
		StandingCheckAfterMinutes:  cfg.StandingCheckAfterMinutes,
		StandingCheckRepeatMinutes: cfg.StandingCheckRepeatMinutes,
		LockResetThresholdMinutes:  cfg.LockResetThresholdMinutes,
	}
	if err := reminderCfg.Validate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("reminder config: %w", err)
	}

	watcher := monitoroutadapter.NewLoginctlSessionWatcher(logger)

	engine := reminderservice.NewEngine(
		clk, logger, reminderCfg,
		reminderoutadapter.NewBeeepNotifier(logger, cfg.PlaySound),
		reminderoutadapter.NewTrackingHistoryAdapter(trackingUC),
		watcher,
	)
	reminderUC := reminderusecase.NewInteractor(engine)

	monitorUC := monitorusecase.NewInteractor(
		clk, logger,
		monitoroutadapter.NewHTTPHeightClient(cfg.BaseURL),
		monitoroutadapter.NewCronScheduler(),
		watcher,
		trackingUC,
		reminderUC,
		time.Duration(cfg.PollMinutes*float64(time.Minute)),
	)

	return &App{
		Config:      cfg,
		Logger:      logger,
		TrackingCLI: trackinginadapter.NewCLIHandler(trackingUC),
		Tracking:    trackingUC,
		Reminder:    reminderUC,
		Monitor:     monitorUC,
		store:       store,
	}, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.Tracking, app.Reminder, app.Config.StandThresholdMM, app.Config.SnoozeMinutes)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
