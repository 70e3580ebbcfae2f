package indicators

import (
	"fmt"

	"agent-trading-engine/internal/market"
)

// macdSlopeEpsilon separates a flat histogram slope from a directional one.
const macdSlopeEpsilon = 1e-4

// AnalyzeMACD interprets a precomputed MACD triple. A cross with the slope
// confirming the histogram is a strong momentum signal; a cross whose slope
// contradicts the histogram is momentum exhaustion and flips direction.
func AnalyzeMACD(snap *market.Snapshot) Signal {
	m := snap.MACD
	if m == nil {
		return neutral(NameMACD, WeightMACD, 0, "no MACD data")
	}

	bullishCross := m.Value > m.Signal && m.Histogram > 0
	bearishCross := m.Value < m.Signal && m.Histogram < 0

	switch {
	case bullishCross:
		if m.Slope > macdSlopeEpsilon {
			return Signal{Name: NameMACD, Direction: Buy, Strength: 0.85, Weight: WeightMACD,
				Detail: fmt.Sprintf("bullish MACD cross, histogram %.4f expanding", m.Histogram)}
		}
		if m.Slope < -macdSlopeEpsilon {
			// Histogram positive but slope rolling over: exhaustion.
			return Signal{Name: NameMACD, Direction: Sell, Strength: 0.4, Weight: WeightMACD,
				Detail: "bullish MACD cross losing momentum (exhaustion)"}
		}
		return Signal{Name: NameMACD, Direction: Buy, Strength: 0.65, Weight: WeightMACD,
			Detail: fmt.Sprintf("bullish MACD cross, histogram %.4f flat", m.Histogram)}

	case bearishCross:
		if m.Slope < -macdSlopeEpsilon {
			return Signal{Name: NameMACD, Direction: Sell, Strength: 0.85, Weight: WeightMACD,
				Detail: fmt.Sprintf("bearish MACD cross, histogram %.4f expanding", m.Histogram)}
		}
		if m.Slope > macdSlopeEpsilon {
			return Signal{Name: NameMACD, Direction: Buy, Strength: 0.4, Weight: WeightMACD,
				Detail: "bearish MACD cross losing momentum (exhaustion)"}
		}
		return Signal{Name: NameMACD, Direction: Sell, Strength: 0.65, Weight: WeightMACD,
			Detail: fmt.Sprintf("bearish MACD cross, histogram %.4f flat", m.Histogram)}
	}

	// No cross: the histogram sign alone is a weak directional lean.
	if m.Histogram > 0 {
		return Signal{Name: NameMACD, Direction: Buy, Strength: 0.25, Weight: WeightMACD,
			Detail: fmt.Sprintf("no MACD cross, histogram %.4f positive", m.Histogram)}
	}
	if m.Histogram < 0 {
		return Signal{Name: NameMACD, Direction: Sell, Strength: 0.25, Weight: WeightMACD,
			Detail: fmt.Sprintf("no MACD cross, histogram %.4f negative", m.Histogram)}
	}
	return neutral(NameMACD, WeightMACD, 0.1, "MACD flat")
}

// ComputeMACD derives a MACD triple from a close history (12/26/9). The
// slope is the change between the last two histogram values. Providers use
// this when the upstream feed does not carry MACD natively.
func ComputeMACD(closes []float64) *market.MACDSnapshot {
	fast := EMASeries(closes, 12)
	slow := EMASeries(closes, 26)
	if len(slow) == 0 || len(fast) == 0 {
		return nil
	}

	// Align the fast series onto the slow one.
	macdLine := make([]float64, len(slow))
	offset := len(fast) - len(slow)
	for i := range slow {
		macdLine[i] = fast[i+offset] - slow[i]
	}

	signal := EMASeries(macdLine, 9)
	if len(signal) == 0 {
		return nil
	}

	value := macdLine[len(macdLine)-1]
	sig := signal[len(signal)-1]
	hist := value - sig

	slope := 0.0
	if len(signal) >= 2 {
		prevHist := macdLine[len(macdLine)-2] - signal[len(signal)-2]
		slope = hist - prevHist
	}

	return &market.MACDSnapshot{Value: value, Signal: sig, Histogram: hist, Slope: slope}
}
