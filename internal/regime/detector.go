// Package regime classifies the prevailing trend state used to gate and
// bias trading decisions.
package regime

import (
	"math"

	"agent-trading-engine/internal/indicators"
	"agent-trading-engine/internal/market"
)

// Regime is a five-state trend classification. The strong endpoints only
// fire on full EMA-stack agreement (or a unanimous momentum vote).
type Regime string

const (
	StrongUptrend   Regime = "STRONG_UPTREND"
	Uptrend         Regime = "UPTREND"
	Range           Regime = "RANGE"
	Downtrend       Regime = "DOWNTREND"
	StrongDowntrend Regime = "STRONG_DOWNTREND"
)

// IsBullish reports whether the regime trends upward.
func (r Regime) IsBullish() bool { return r == Uptrend || r == StrongUptrend }

// IsBearish reports whether the regime trends downward.
func (r Regime) IsBearish() bool { return r == Downtrend || r == StrongDowntrend }

// minHistoryForEMA is the shortest close history that supports the
// EMA-stack path (the 9 and 21 lines).
const minHistoryForEMA = 21

// Detect classifies the regime, preferring EMA-stack alignment and falling
// back to a multi-timeframe momentum vote on thin history.
func Detect(snap *market.Snapshot) Regime {
	closes := snap.Closes()
	if len(closes) >= minHistoryForEMA {
		stack := indicators.ComputeEMAStack(closes, snap.Price)
		if n := stack.Lines(); n > 0 {
			return fromStack(stack.PriceAboveCount, n)
		}
	}
	return fromMomentum(snap)
}

func fromStack(priceAbove, n int) Regime {
	switch {
	case priceAbove == n:
		return StrongUptrend
	case priceAbove == 0:
		return StrongDowntrend
	case float64(priceAbove) >= math.Ceil(0.75*float64(n)):
		return Uptrend
	case float64(priceAbove) <= math.Floor(0.25*float64(n)):
		return Downtrend
	default:
		return Range
	}
}

// fromMomentum votes across four timeframes; three agreeing votes make a
// trend, four make it strong.
func fromMomentum(snap *market.Snapshot) Regime {
	bull, bear := 0, 0

	vote := func(bullish, bearish bool) {
		if bullish {
			bull++
		}
		if bearish {
			bear++
		}
	}
	vote(snap.Change1h > 0.5, snap.Change1h < -0.5)
	vote(snap.Change24h > 2, snap.Change24h < -2)
	vote(snap.Change7d > 5, snap.Change7d < -5)
	vote(snap.RangePercent > 70, snap.RangePercent < 30)

	switch {
	case bull == 4:
		return StrongUptrend
	case bull >= 3:
		return Uptrend
	case bear == 4:
		return StrongDowntrend
	case bear >= 3:
		return Downtrend
	default:
		return Range
	}
}
