package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.InDelta(t, 0.02, cfg.RiskFreeRate, 1e-9)
	assert.Equal(t, []string{"SPY"}, cfg.Symbols)
	assert.Equal(t, "6mo", cfg.HistoryPeriod)
	assert.Equal(t, "30 3 * * *", cfg.MaintenanceCron)
	assert.Equal(t, 365, cfg.RetentionDays)
	require.Len(t, cfg.Models, 2)
	assert.Equal(t, ModelWeight{Name: "momentum", Weight: 0.5}, cfg.Models[0])
	assert.Equal(t, ModelWeight{Name: "mean_reversion", Weight: 0.5}, cfg.Models[1])
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("RISK_FREE_RATE", "0.035")
	t.Setenv("SYMBOLS", "aapl, msft")
	t.Setenv("MODELS", "momentum:0.7,mean_reversion:0.3")
	t.Setenv("SNAPSHOT_RETENTION_DAYS", "90")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.InDelta(t, 0.035, cfg.RiskFreeRate, 1e-9)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Symbols)
	assert.Equal(t, 90, cfg.RetentionDays)
	require.Len(t, cfg.Models, 2)
	assert.InDelta(t, 0.7, cfg.Models[0].Weight, 1e-9)
}

func TestLoad_RejectsMalformedModels(t *testing.T) {
	t.Setenv("MODELS", "momentum=0.5")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonNumericWeight(t *testing.T) {
	t.Setenv("MODELS", "momentum:heavy")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_RejectsBadPort(t *testing.T) {
	cfg := &Config{
		Port:    -1,
		Symbols: []string{"SPY"},
		Models:  []ModelWeight{{Name: "momentum", Weight: 1}},
	}
	assert.Error(t, cfg.Validate())
}

func TestParseSymbols_SkipsEmptyEntries(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT"}, parseSymbols("aapl,,msft,"))
}
