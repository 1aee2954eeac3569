// Package config provides configuration management for the backtesting
// application.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/a28218832/Future-Option-Trader/internal/errors"
	"github.com/a28218832/Future-Option-Trader/internal/logging"
	"github.com/a28218832/Future-Option-Trader/internal/strategy"
)

const dateLayout = "2006-01-02"

// Config holds all application configuration.
type Config struct {
	Backtest BacktestConfig `mapstructure:"backtest"`
	Strategy StrategyConfig `mapstructure:"strategy"`
	Data     DataConfig     `mapstructure:"data"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// BacktestConfig holds the simulation window and account settings.
type BacktestConfig struct {
	StartDate      string  `mapstructure:"start_date"`
	EndDate        string  `mapstructure:"end_date"`
	InitialBalance float64 `mapstructure:"initial_balance"`
	RiskFreeRate   float64 `mapstructure:"risk_free_rate"`
	DBPath         string  `mapstructure:"db_path"`
}

// StrategyConfig holds wheel strategy parameters.
type StrategyConfig struct {
	Leverage      float64 `mapstructure:"leverage"`
	TargetDelta   float64 `mapstructure:"target_delta"`
	StopLossDelta float64 `mapstructure:"stop_loss_delta"`
	ProfitTakePct float64 `mapstructure:"profit_take_pct"`
	GammaRiskDays float64 `mapstructure:"gamma_risk_days"`
	CallFallback  string  `mapstructure:"call_fallback"`
}

// DataConfig points at the cleaned market data tables.
type DataConfig struct {
	FuturesCSV string `mapstructure:"futures_csv"`
	OptionsCSV string `mapstructure:"options_csv"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  bool   `mapstructure:"file"`
	Path  string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/future-option-trader"
	}
	return filepath.Join(home, ".config", "future-option-trader")
}

// Load reads configuration from the specified directory, applying
// defaults and environment overrides, and validates it. If configDir is
// empty the default directory is used. A missing config file yields the
// defaults.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperrors.Wrap(err, "loading config.toml")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrap(err, "unmarshaling config")
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backtest.initial_balance", 2_000_000.0)
	v.SetDefault("backtest.risk_free_rate", 0.01)
	v.SetDefault("backtest.db_path", filepath.Join(DefaultConfigDir(), "backtests.db"))

	defaults := strategy.DefaultWheelParams()
	v.SetDefault("strategy.leverage", defaults.Leverage)
	v.SetDefault("strategy.target_delta", defaults.TargetDelta)
	v.SetDefault("strategy.stop_loss_delta", defaults.StopLossDelta)
	v.SetDefault("strategy.profit_take_pct", defaults.ProfitTakePct)
	v.SetDefault("strategy.gamma_risk_days", defaults.GammaRiskDays)
	v.SetDefault("strategy.call_fallback", string(defaults.CallFallback))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", false)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FOT_FUTURES_CSV"); v != "" {
		cfg.Data.FuturesCSV = v
	}
	if v := os.Getenv("FOT_OPTIONS_CSV"); v != "" {
		cfg.Data.OptionsCSV = v
	}
	if v := os.Getenv("FOT_DB_PATH"); v != "" {
		cfg.Backtest.DBPath = v
	}
	if v := os.Getenv("FOT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration. Configuration errors are the one
// class of error surfaced to the caller before a run starts.
func (c *Config) Validate() error {
	if c.Backtest.InitialBalance <= 0 {
		return apperrors.NewValidationError("backtest.initial_balance", c.Backtest.InitialBalance, "must be positive")
	}
	if c.Backtest.RiskFreeRate < 0 {
		return apperrors.NewValidationError("backtest.risk_free_rate", c.Backtest.RiskFreeRate, "must be non-negative")
	}

	start, end, err := c.Window()
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return apperrors.NewValidationError("backtest.end_date", c.Backtest.EndDate, "must not precede start_date")
	}

	return c.WheelParams().Validate()
}

// Window parses the configured backtest date range. Zero times are
// returned for unset bounds.
func (c *Config) Window() (start, end time.Time, err error) {
	if c.Backtest.StartDate != "" {
		start, err = time.Parse(dateLayout, c.Backtest.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError("backtest.start_date", c.Backtest.StartDate, "expected YYYY-MM-DD")
		}
	}
	if c.Backtest.EndDate != "" {
		end, err = time.Parse(dateLayout, c.Backtest.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError("backtest.end_date", c.Backtest.EndDate, "expected YYYY-MM-DD")
		}
	}
	return start, end, nil
}

// WheelParams assembles strategy parameters from the configuration.
func (c *Config) WheelParams() strategy.WheelParams {
	return strategy.WheelParams{
		Leverage:      c.Strategy.Leverage,
		TargetDelta:   c.Strategy.TargetDelta,
		StopLossDelta: c.Strategy.StopLossDelta,
		ProfitTakePct: c.Strategy.ProfitTakePct,
		GammaRiskDays: c.Strategy.GammaRiskDays,
		CallFallback:  strategy.CallFallbackPolicy(c.Strategy.CallFallback),
	}
}

// LogConfig assembles the logging configuration.
func (c *Config) LogConfig() logging.LogConfig {
	lc := logging.DefaultLogConfig()
	lc.Level = c.Logging.Level
	lc.File = c.Logging.File
	if c.Logging.Path != "" {
		lc.FilePath = c.Logging.Path
	}
	return lc
}
