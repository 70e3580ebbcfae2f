package indicators

import (
	"fmt"
	"math"

	"agent-trading-engine/internal/market"
)

const (
	atrPeriod           = 14
	atrStopMultiplier   = 1.5
	atrTargetMultiplier = 3.0 // fixed 2:1 reward:risk over the stop
)

// VolatilityTier buckets ATR relative to price.
type VolatilityTier string

const (
	TierLow     VolatilityTier = "LOW"
	TierMedium  VolatilityTier = "MEDIUM"
	TierHigh    VolatilityTier = "HIGH"
	TierExtreme VolatilityTier = "EXTREME"
)

// ATRProfile is the volatility-scaled risk profile consumed by both the
// scorer and the position sizer.
type ATRProfile struct {
	ATR            float64        `json:"atr"`
	ATRPercent     float64        `json:"atr_percent"`
	StopDistance   float64        `json:"stop_distance"`
	TargetDistance float64        `json:"target_distance"`
	StopPercent    float64        `json:"stop_percent"`
	TargetPercent  float64        `json:"target_percent"`
	Tier           VolatilityTier `json:"tier"`
}

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(k market.Kline, prevClose float64) float64 {
	return math.Max(k.High-k.Low,
		math.Max(math.Abs(k.High-prevClose), math.Abs(k.Low-prevClose)))
}

// ComputeATR averages the last period true ranges. Requires period+1
// candles for the previous-close reference; returns 0 otherwise.
func ComputeATR(klines []market.Kline, period int) float64 {
	if period <= 0 || len(klines) < period+1 {
		return 0
	}
	sum := 0.0
	start := len(klines) - period
	for i := start; i < len(klines); i++ {
		sum += TrueRange(klines[i], klines[i-1].Close)
	}
	return sum / float64(period)
}

// ComputeATRProfile derives the risk profile from candles, or from the
// snapshot's 24h volatility when no candles exist.
func ComputeATRProfile(snap *market.Snapshot) ATRProfile {
	atr := ComputeATR(snap.Klines, atrPeriod)
	if atr == 0 && snap.Price > 0 {
		atr = snap.Price * snap.Volatility / 100
	}

	p := ATRProfile{ATR: atr}
	if snap.Price > 0 {
		p.ATRPercent = atr / snap.Price * 100
	}
	p.StopDistance = atrStopMultiplier * atr
	p.TargetDistance = atrTargetMultiplier * atr
	p.StopPercent = atrStopMultiplier * p.ATRPercent
	p.TargetPercent = atrTargetMultiplier * p.ATRPercent

	switch {
	case p.ATRPercent < 1.5:
		p.Tier = TierLow
	case p.ATRPercent < 4:
		p.Tier = TierMedium
	case p.ATRPercent < 8:
		p.Tier = TierHigh
	default:
		p.Tier = TierExtreme
	}
	return p
}

// Signal renders the profile as the scorer's volatility gating signal. It
// is always neutral: it never votes a direction, only records how hostile
// conditions are for the supporting-signal list and rationale text.
func (p ATRProfile) Signal() Signal {
	strength := map[VolatilityTier]float64{
		TierLow: 0.2, TierMedium: 0.4, TierHigh: 0.6, TierExtreme: 0.8,
	}[p.Tier]
	return neutral(NameATRRisk, WeightATRRisk, strength,
		fmt.Sprintf("%s volatility (ATR %.2f%% of price)", p.Tier, p.ATRPercent))
}
