package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Session.TradeCap)
	assert.Equal(t, time.Minute, cfg.Session.Cooldown)
	assert.InDelta(t, 1000.0, cfg.Paper.StartingCash, 1e-9)
	assert.InDelta(t, 5.0, cfg.Guard.MaxTradePct, 1e-9)
	assert.Empty(t, cfg.Agents)
}

func TestLoadEnvOverridesWithoutFile(t *testing.T) {
	t.Setenv("ENGINE_SESSION_TRADE_CAP", "3")
	t.Setenv("ENGINE_LOGGING_LEVEL", "debug")
	t.Setenv("ENGINE_SCHEDULER_CADENCE", "30s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Session.TradeCap)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Cadence)
	// Untouched keys keep their defaults.
	assert.Equal(t, time.Minute, cfg.Session.Cooldown)
}

func TestLoadEnvOverridesFileValue(t *testing.T) {
	yaml := `
session:
  trade_cap: 5
`
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("ENGINE_SESSION_TRADE_CAP", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Session.TradeCap)
}

func TestLoadFromFile(t *testing.T) {
	yaml := `
logging:
  level: debug
session:
  trade_cap: 3
  cooldown: 30s
scheduler:
  cadence: 15s
agents:
  - id: agent-1
    symbol: SOLUSDT
    traits:
      aggression: 80
      ema_skill: 90
`
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Session.TradeCap)
	assert.Equal(t, 30*time.Second, cfg.Session.Cooldown)
	assert.Equal(t, 15*time.Second, cfg.Scheduler.Cadence)
	require.Len(t, cfg.Agents, 1)
	assert.Equal(t, "agent-1", cfg.Agents[0].ID)
	assert.Equal(t, "SOLUSDT", cfg.Agents[0].Symbol)
	assert.InDelta(t, 80.0, cfg.Agents[0].Traits.Aggression, 1e-9)
	assert.InDelta(t, 90.0, cfg.Agents[0].Traits.EMASkill, 1e-9)
}

func TestLoadRejectsAnonymousAgents(t *testing.T) {
	yaml := `
agents:
  - symbol: SOLUSDT
`
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
