// Package portfolio computes equity, exposure, and the capital ceiling for
// a new trade. Money math runs on decimals; percentages are returned as
// floats for the scorer and rationale text.
package portfolio

import (
	"github.com/shopspring/decimal"
)

// Position is the open-position metadata for one agent, if any.
type Position struct {
	Token      string  `json:"token"`
	EntryPrice float64 `json:"entry_price"`
	Quantity   float64 `json:"quantity"`
	EntryCost  float64 `json:"entry_cost"`
}

// Snapshot is the portfolio input supplied fresh for every evaluation. The
// engine derives equity and exposure but never persists or mutates it.
type Snapshot struct {
	CashBalance   float64   `json:"cash_balance"`
	PositionValue float64   `json:"position_value"`
	Position      *Position `json:"position,omitempty"`
}

// HasPosition reports whether the agent holds a nonzero open position.
func (s Snapshot) HasPosition() bool {
	return s.Position != nil && s.Position.Quantity > 0
}

// GuardConfig holds the risk-governance knobs.
type GuardConfig struct {
	// GasBuffer is a flat currency amount reserved for transaction fees.
	GasBuffer float64 `mapstructure:"gas_buffer"`
	// SafetyReservePct of equity held back from deployment.
	SafetyReservePct float64 `mapstructure:"safety_reserve_pct"`
	// CashReservePct of equity kept as a minimum cash floor.
	CashReservePct float64 `mapstructure:"cash_reserve_pct"`
	// MaxTradePct of equity allowed into a single trade.
	MaxTradePct float64 `mapstructure:"max_trade_pct"`
	// MinEquity below which all trading halts.
	MinEquity float64 `mapstructure:"min_equity"`
	// MaxExposurePct flags the portfolio as overexposed.
	MaxExposurePct float64 `mapstructure:"max_exposure_pct"`
	// LowCashPct flags the cash share as thin.
	LowCashPct float64 `mapstructure:"low_cash_pct"`
}

// DefaultGuardConfig returns the standard reserve schedule.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		GasBuffer:        0.5,
		SafetyReservePct: 5,
		CashReservePct:   20,
		MaxTradePct:      5,
		MinEquity:        2,
		MaxExposurePct:   60,
		LowCashPct:       20,
	}
}

// Assessment is the guard's read of one portfolio snapshot.
type Assessment struct {
	Equity        float64 `json:"equity"`
	ExposurePct   float64 `json:"exposure_pct"`
	CashPct       float64 `json:"cash_pct"`
	AvailableCash float64 `json:"available_cash"`
	MaxTradeSize  float64 `json:"max_trade_size"`
	// TradableAmount is the most capital committable to a new trade.
	TradableAmount float64 `json:"tradable_amount"`

	IsOverexposed bool `json:"is_overexposed"`
	IsCashLow     bool `json:"is_cash_low"`
	IsFundsTooLow bool `json:"is_funds_too_low"`
}

// Guard applies the reserve schedule to portfolio snapshots.
type Guard struct {
	cfg GuardConfig
}

// NewGuard builds a guard; zero-valued configs get the defaults.
func NewGuard(cfg GuardConfig) *Guard {
	if cfg == (GuardConfig{}) {
		cfg = DefaultGuardConfig()
	}
	return &Guard{cfg: cfg}
}

// Assess derives equity, exposure, reserve-adjusted available cash, and the
// tradable ceiling from a snapshot.
func (g *Guard) Assess(snap Snapshot) Assessment {
	cash := decimal.NewFromFloat(snap.CashBalance)
	posValue := decimal.NewFromFloat(snap.PositionValue)
	equity := cash.Add(posValue)

	a := Assessment{Equity: equity.InexactFloat64()}

	hundred := decimal.NewFromInt(100)
	if equity.IsPositive() {
		a.ExposurePct = posValue.Mul(hundred).Div(equity).InexactFloat64()
		a.CashPct = cash.Mul(hundred).Div(equity).InexactFloat64()
	}

	pct := func(v float64) decimal.Decimal {
		return equity.Mul(decimal.NewFromFloat(v)).Div(hundred)
	}

	available := cash.
		Sub(decimal.NewFromFloat(g.cfg.GasBuffer)).
		Sub(pct(g.cfg.SafetyReservePct)).
		Sub(pct(g.cfg.CashReservePct))
	if available.IsNegative() {
		available = decimal.Zero
	}
	a.AvailableCash = available.InexactFloat64()

	maxTrade := pct(g.cfg.MaxTradePct)
	a.MaxTradeSize = maxTrade.InexactFloat64()

	tradable := decimal.Min(maxTrade, available)
	a.TradableAmount = tradable.InexactFloat64()

	a.IsOverexposed = a.ExposurePct > g.cfg.MaxExposurePct
	a.IsCashLow = a.CashPct < g.cfg.LowCashPct
	a.IsFundsTooLow = equity.LessThan(decimal.NewFromFloat(g.cfg.MinEquity))

	return a
}
