package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/a28218832/Future-Option-Trader/internal/errors"
	"github.com/a28218832/Future-Option-Trader/internal/strategy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644)
	require.NoError(t, err)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir()) // no config.toml present
	require.NoError(t, err)

	assert.Equal(t, 2_000_000.0, cfg.Backtest.InitialBalance)
	assert.Equal(t, 0.01, cfg.Backtest.RiskFreeRate)
	assert.Equal(t, 3.0, cfg.Strategy.Leverage)
	assert.Equal(t, 0.20, cfg.Strategy.TargetDelta)
	assert.Equal(t, string(strategy.FallbackAbstain), cfg.Strategy.CallFallback)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := writeConfig(t, `
[backtest]
start_date = "2016-01-04"
end_date = "2020-12-30"
initial_balance = 5000000.0
risk_free_rate = 0.02

[strategy]
leverage = 2.0
target_delta = 0.25
call_fallback = "defensive"

[data]
futures_csv = "/data/futures.csv"
options_csv = "/data/options.csv"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 5_000_000.0, cfg.Backtest.InitialBalance)
	assert.Equal(t, 0.02, cfg.Backtest.RiskFreeRate)
	assert.Equal(t, 2.0, cfg.Strategy.Leverage)
	assert.Equal(t, 0.25, cfg.Strategy.TargetDelta)
	assert.Equal(t, "defensive", cfg.Strategy.CallFallback)
	// Unset keys keep their defaults.
	assert.Equal(t, 0.60, cfg.Strategy.StopLossDelta)
	assert.Equal(t, "/data/futures.csv", cfg.Data.FuturesCSV)

	start, end, err := cfg.Window()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, time.January, 4, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2020, time.December, 30, 0, 0, 0, 0, time.UTC), end)
}

func TestLoadInvalidConfigFailsFast(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"negative balance", "[backtest]\ninitial_balance = -1.0\n"},
		{"bad date", "[backtest]\nstart_date = \"04/01/2016\"\n"},
		{"end before start", "[backtest]\nstart_date = \"2020-01-01\"\nend_date = \"2016-01-01\"\n"},
		{"bad leverage", "[strategy]\nleverage = 0.0\n"},
		{"bad fallback", "[strategy]\ncall_fallback = \"yolo\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfig(t, tt.toml)
			_, err := Load(dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FOT_FUTURES_CSV", "/env/futures.csv")
	t.Setenv("FOT_OPTIONS_CSV", "/env/options.csv")
	t.Setenv("FOT_DB_PATH", "/env/backtests.db")
	t.Setenv("FOT_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/env/futures.csv", cfg.Data.FuturesCSV)
	assert.Equal(t, "/env/options.csv", cfg.Data.OptionsCSV)
	assert.Equal(t, "/env/backtests.db", cfg.Backtest.DBPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestWheelParamsPassThrough(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	params := cfg.WheelParams()
	require.NoError(t, params.Validate())
	assert.Equal(t, cfg.Strategy.Leverage, params.Leverage)
	assert.Equal(t, strategy.CallFallbackPolicy(cfg.Strategy.CallFallback), params.CallFallback)
}

func TestWindowUnsetBounds(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	start, end, err := cfg.Window()
	require.NoError(t, err)
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())
}
