package indicators

import (
	"fmt"
	"math"

	"agent-trading-engine/internal/market"
)

// ClassifyRSI maps a spot RSI reading to a direction and strength. Used
// when only a precomputed RSI exists, without the history needed for
// divergence detection. Boundary readings of exactly 30 and 70 are neutral.
func ClassifyRSI(rsi float64) (Direction, float64) {
	switch {
	case rsi < 20:
		return Buy, 0.9
	case rsi < 30:
		return Buy, 0.6
	case rsi > 80:
		return Sell, 0.9
	case rsi > 70:
		return Sell, 0.6
	default:
		return Neutral, 0.2
	}
}

// AnalyzeRSI produces the RSI signal. With at least three points of both
// price and RSI history it looks for divergence (latest value versus the
// value two samples back); otherwise it degrades to zone analysis on the
// freshest RSI reading available.
func AnalyzeRSI(snap *market.Snapshot) Signal {
	prices := snap.Closes()
	rsiHist := snap.RSIHistory

	if len(prices) >= 3 && len(rsiHist) >= 3 {
		return analyzeRSIDivergence(prices, rsiHist, snap.Change24h)
	}

	if snap.RSI != nil {
		dir, strength := ClassifyRSI(*snap.RSI)
		return Signal{
			Name: NameRSI, Direction: dir, Strength: strength, Weight: WeightRSI,
			Detail: fmt.Sprintf("spot RSI %.1f", *snap.RSI),
		}
	}

	return neutral(NameRSI, WeightRSI, 0, "no RSI data")
}

func analyzeRSIDivergence(prices, rsiHist []float64, change24h float64) Signal {
	p0 := prices[len(prices)-1]
	p2 := prices[len(prices)-3]
	r0 := rsiHist[len(rsiHist)-1]
	r2 := rsiHist[len(rsiHist)-3]

	extreme := r0 < 20 || r0 > 80

	// Bullish divergence: price lower-low, RSI higher-low while weak.
	if p0 < p2 && r0 > r2 && r0 < 50 {
		strength := 0.8
		if extreme {
			strength = 0.95
		}
		return Signal{
			Name: NameRSI, Direction: Buy, Strength: strength, Weight: WeightRSI,
			Detail: fmt.Sprintf("bullish RSI divergence (RSI %.1f rising against falling price)", r0),
		}
	}
	// Bearish divergence: price higher-high, RSI lower-high while strong.
	if p0 > p2 && r0 < r2 && r0 > 50 {
		strength := 0.8
		if extreme {
			strength = 0.95
		}
		return Signal{
			Name: NameRSI, Direction: Sell, Strength: strength, Weight: WeightRSI,
			Detail: fmt.Sprintf("bearish RSI divergence (RSI %.1f falling against rising price)", r0),
		}
	}

	switch {
	case r0 < 20:
		return Signal{Name: NameRSI, Direction: Buy, Strength: 0.75, Weight: WeightRSI,
			Detail: fmt.Sprintf("RSI deeply oversold (%.1f)", r0)}
	case r0 < 30:
		return Signal{Name: NameRSI, Direction: Buy, Strength: 0.5, Weight: WeightRSI,
			Detail: fmt.Sprintf("RSI oversold (%.1f)", r0)}
	case r0 > 80:
		return Signal{Name: NameRSI, Direction: Sell, Strength: 0.75, Weight: WeightRSI,
			Detail: fmt.Sprintf("RSI deeply overbought (%.1f)", r0)}
	case r0 > 70:
		return Signal{Name: NameRSI, Direction: Sell, Strength: 0.5, Weight: WeightRSI,
			Detail: fmt.Sprintf("RSI overbought (%.1f)", r0)}
	}

	// Mid-zone, no divergence: 24h momentum is only a weak tiebreak on
	// strength, never on direction.
	strength := 0.1
	if math.Abs(change24h) > 1.0 {
		strength = 0.2
	}
	return neutral(NameRSI, WeightRSI, strength,
		fmt.Sprintf("RSI neutral (%.1f), 24h momentum %.1f%%", r0, change24h))
}

// ComputeRSISeries derives an RSI history from closes using simple-average
// gains/losses over the period, one value per step once seeded. Providers
// without a native RSI feed use this to populate RSIHistory.
func ComputeRSISeries(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}
	out := make([]float64, 0, len(closes)-period)
	for end := period + 1; end <= len(closes); end++ {
		window := closes[end-period-1 : end]
		gains, losses := 0.0, 0.0
		for i := 1; i < len(window); i++ {
			change := window[i] - window[i-1]
			if change > 0 {
				gains += change
			} else {
				losses -= change
			}
		}
		avgGain := gains / float64(period)
		avgLoss := losses / float64(period)
		if avgLoss == 0 {
			out = append(out, 100)
			continue
		}
		rs := avgGain / avgLoss
		out = append(out, 100-100/(1+rs))
	}
	return out
}
