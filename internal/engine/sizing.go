package engine

import (
	"github.com/shopspring/decimal"

	"agent-trading-engine/internal/agent"
	"agent-trading-engine/internal/indicators"
	"agent-trading-engine/internal/portfolio"
)

const (
	defaultStopPercent = 1.5
	maxPositionPercent = 50.0
)

// suggestSize converts the agent's risk budget into an equity percentage
// using volatility-scaled stop distance, then caps it by the guard's
// tradable ceiling. Returns the percent of equity and the cash amount.
func suggestSize(traits agent.Traits, profile indicators.ATRProfile, assess portfolio.Assessment) (float64, decimal.Decimal) {
	if assess.Equity <= 0 || assess.TradableAmount <= 0 {
		return 0, decimal.Zero
	}

	stopPct := profile.StopPercent
	if stopPct <= 0 {
		stopPct = defaultStopPercent
	}

	// Risk budget per trade as a share of equity, 0.5% to 3%.
	riskPct := 0.5 + 2.5*traits.RiskTolerance/100

	// Position size such that hitting the stop loses exactly riskPct.
	raw := riskPct / stopPct * 100

	// Aggressive agents refuse token-sized positions.
	floor := 5 + 10*traits.Aggression/100
	if raw < floor {
		raw = floor
	}
	if raw > maxPositionPercent {
		raw = maxPositionPercent
	}

	// The reserve schedule has the final word.
	ceiling := assess.TradableAmount / assess.Equity * 100
	if raw > ceiling {
		raw = ceiling
	}

	amount := decimal.NewFromFloat(assess.Equity).
		Mul(decimal.NewFromFloat(raw)).
		Div(decimal.NewFromInt(100))
	return raw, amount
}
