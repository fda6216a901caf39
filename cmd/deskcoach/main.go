package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"deskcoach/internal/bootstrap"
	"deskcoach/internal/modules/tracking/dto"
	"deskcoach/internal/platform/config"
	"deskcoach/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "deskcoach",
		Short:         "Standing desk posture coach",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: XDG config dir)")

	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newStatsCmd(&configPath))
	root.AddCommand(newSnapshotCmd(&configPath))
	root.AddCommand(newRecalcCmd(&configPath))
	root.AddCommand(newTUICmd(&configPath))
	return root
}

func loadApp(configPath string) (*bootstrap.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logging.New(cfg.LogLevel))
}

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Poll the desk and send reminders until interrupted",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Monitor.Run(ctx)
		},
	}
}

func newStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print today's posture totals against yesterday's",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := context.Background()
			today, err := app.TrackingCLI.TodayStats(ctx, app.Config.StandThresholdMM)
			if err != nil {
				return err
			}
			yesterday, err := app.TrackingCLI.YesterdayStats(ctx, app.Config.StandThresholdMM)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "today     %s\n", formatStats(today))
			_, _ = fmt.Fprintf(out, "yesterday %s (same time of day)\n", formatStats(yesterday))
			return nil
		},
	}
}

func newSnapshotCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Record a single height sample and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			app.Monitor.Tick(context.Background())
			return nil
		},
	}
}

func newRecalcCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recalc",
		Short: "Rebuild all daily aggregates from raw samples",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.TrackingCLI.Recalculate(context.Background(), app.Config.StandThresholdMM); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "daily aggregates rebuilt")
			return nil
		},
	}
}

func newTUICmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the deskcoach dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func formatStats(s dto.StatsOutput) string {
	total := s.SeatedSec + s.StandingSec
	pct := 0.0
	if total > 0 {
		pct = float64(s.StandingSec) / float64(total) * 100
	}
	return fmt.Sprintf("seated %s  standing %s  (%.0f%% standing)",
		formatHM(s.SeatedSec), formatHM(s.StandingSec), pct)
}

func formatHM(sec int64) string {
	minutes := sec / 60
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
