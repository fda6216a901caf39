package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appDir = "deskcoach"

// Config carries every threshold the accounting and reminder logic needs.
// All durations are expressed in the units their names state; conversion to
// time.Duration happens at the call sites.
type Config struct {
	BaseURL                    string  `yaml:"base_url"`
	PollMinutes                float64 `yaml:"poll_minutes"`
	StandThresholdMM           int     `yaml:"stand_threshold_mm"`
	RemindAfterMinutes         int     `yaml:"remind_after_minutes"`
	RemindRepeatMinutes        int     `yaml:"remind_repeat_minutes"`
	StandingCheckAfterMinutes  int     `yaml:"standing_check_after_minutes"`
	StandingCheckRepeatMinutes int     `yaml:"standing_check_repeat_minutes"`
	SnoozeMinutes              int     `yaml:"snooze_minutes"`
	LockResetThresholdMinutes  int     `yaml:"lock_reset_threshold_minutes"`
	TodayFreshnessSeconds      int     `yaml:"today_freshness_seconds"`
	PlaySound                  bool    `yaml:"play_sound"`
	DBPath                     string  `yaml:"db_path"`
	LogLevel                   string  `yaml:"log_level"`
}

func Default() Config {
	return Config{
		BaseURL:                    "http://localhost:8490",
		PollMinutes:                1,
		StandThresholdMM:           900,
		RemindAfterMinutes:         45,
		RemindRepeatMinutes:        5,
		StandingCheckAfterMinutes:  30,
		StandingCheckRepeatMinutes: 30,
		SnoozeMinutes:              30,
		LockResetThresholdMinutes:  5,
		TodayFreshnessSeconds:      120,
		PlaySound:                  true,
		LogLevel:                   "info",
	}
}

// Load reads YAML config from path. An explicit path that does not exist is
// a hard error: silently running with wrong thresholds is worse than
// refusing to start. With path == "" the default location is used and
// seeded with defaults on first run.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = xdg.ConfigFile(filepath.Join(appDir, "config.yaml"))
		if err != nil {
			return Config{}, fmt.Errorf("resolve config path: %w", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if explicit || !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		cfg := Default()
		if writeErr := write(path, cfg); writeErr != nil {
			return Config{}, fmt.Errorf("seed default config: %w", writeErr)
		}
		return cfg.withDerived()
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.withDerived()
}

func (c Config) withDerived() (Config, error) {
	if c.DBPath == "" {
		p, err := xdg.DataFile(filepath.Join(appDir, "deskcoach.db"))
		if err != nil {
			return Config{}, fmt.Errorf("resolve db path: %w", err)
		}
		c.DBPath = p
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.PollMinutes <= 0 {
		return fmt.Errorf("poll_minutes must be positive")
	}
	if c.StandThresholdMM <= 0 {
		return fmt.Errorf("stand_threshold_mm must be positive")
	}
	if c.RemindAfterMinutes <= 0 || c.RemindRepeatMinutes <= 0 {
		return fmt.Errorf("seated reminder minutes must be positive")
	}
	if c.StandingCheckAfterMinutes <= 0 || c.StandingCheckRepeatMinutes <= 0 {
		return fmt.Errorf("standing check minutes must be positive")
	}
	if c.SnoozeMinutes <= 0 {
		return fmt.Errorf("snooze_minutes must be positive")
	}
	if c.LockResetThresholdMinutes < 0 {
		return fmt.Errorf("lock_reset_threshold_minutes must not be negative")
	}
	if c.TodayFreshnessSeconds < 0 {
		return fmt.Errorf("today_freshness_seconds must not be negative")
	}
	return nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
