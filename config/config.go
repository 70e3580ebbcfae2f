// Package config loads and validates the engine configuration from YAML
// with environment-variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"agent-trading-engine/internal/circuit"
	"agent-trading-engine/internal/logging"
	"agent-trading-engine/internal/marketdata"
	"agent-trading-engine/internal/portfolio"
	"agent-trading-engine/internal/scheduler"
)

// Config is the full engine configuration tree.
type Config struct {
	Logging    logging.Config          `mapstructure:"logging"`
	Session    SessionConfig           `mapstructure:"session"`
	Guard      portfolio.GuardConfig   `mapstructure:"guard"`
	MarketData marketdata.ClientConfig `mapstructure:"marketdata"`
	Breaker    circuit.BreakerConfig   `mapstructure:"breaker"`
	Paper      PaperConfig             `mapstructure:"paper"`
	Scheduler  SchedulerConfig         `mapstructure:"scheduler"`
	Agents     []scheduler.AgentSpec   `mapstructure:"agents" validate:"dive"`
}

// SessionConfig holds the session governor limits.
type SessionConfig struct {
	TradeCap int           `mapstructure:"trade_cap" validate:"min=0"`
	Cooldown time.Duration `mapstructure:"cooldown" validate:"min=0"`
}

// PaperConfig seeds the virtual portfolios.
type PaperConfig struct {
	StartingCash float64 `mapstructure:"starting_cash" validate:"gt=0"`
}

// SchedulerConfig sets the evaluation cadence.
type SchedulerConfig struct {
	Cadence time.Duration `mapstructure:"cadence" validate:"gt=0"`
}

// Default returns a runnable configuration without any file present.
func Default() *Config {
	return &Config{
		Logging: logging.Config{Level: "info", Format: "console", Output: "stdout"},
		Session: SessionConfig{TradeCap: 10, Cooldown: time.Minute},
		Guard:   portfolio.DefaultGuardConfig(),
		MarketData: marketdata.ClientConfig{
			Timeout: 10 * time.Second,
		},
		Breaker:   circuit.DefaultBreakerConfig(),
		Paper:     PaperConfig{StartingCash: 1000},
		Scheduler: SchedulerConfig{Cadence: time.Minute},
	}
}

// setDefaults registers every key on the viper instance. AutomaticEnv only
// resolves keys viper already knows about, so the environment can override
// settings even when no config file is given.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("session.trade_cap", d.Session.TradeCap)
	v.SetDefault("session.cooldown", d.Session.Cooldown)
	v.SetDefault("guard.gas_buffer", d.Guard.GasBuffer)
	v.SetDefault("guard.safety_reserve_pct", d.Guard.SafetyReservePct)
	v.SetDefault("guard.cash_reserve_pct", d.Guard.CashReservePct)
	v.SetDefault("guard.max_trade_pct", d.Guard.MaxTradePct)
	v.SetDefault("guard.min_equity", d.Guard.MinEquity)
	v.SetDefault("guard.max_exposure_pct", d.Guard.MaxExposurePct)
	v.SetDefault("guard.low_cash_pct", d.Guard.LowCashPct)
	v.SetDefault("marketdata.base_url", d.MarketData.BaseURL)
	v.SetDefault("marketdata.timeout", d.MarketData.Timeout)
	v.SetDefault("breaker.enabled", d.Breaker.Enabled)
	v.SetDefault("breaker.max_failures", d.Breaker.MaxFailures)
	v.SetDefault("breaker.cooldown", d.Breaker.Cooldown)
	v.SetDefault("breaker.half_open_probes", d.Breaker.HalfOpenProbes)
	v.SetDefault("paper.starting_cash", d.Paper.StartingCash)
	v.SetDefault("scheduler.cadence", d.Scheduler.Cadence)
}

// Load reads the YAML config at path (optional; defaults apply when
// empty), layers ENGINE_* environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	for i, a := range cfg.Agents {
		if a.ID == "" || a.Symbol == "" {
			return nil, fmt.Errorf("invalid config: agent %d needs id and symbol", i)
		}
	}
	return cfg, nil
}
