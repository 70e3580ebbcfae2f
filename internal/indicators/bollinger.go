package indicators

import (
	"fmt"

	"agent-trading-engine/internal/market"
)

const (
	bollingerPeriod = 20
	bollingerStdDev = 2.0
	// bandwidth comparison offset, in periods
	bollingerSqueezeLookback = 5
)

// BollingerBands holds one band computation.
type BollingerBands struct {
	Upper, Middle, Lower float64
	Bandwidth            float64
	PercentB             float64
}

// ComputeBollingerBands computes 20-period bands over the trailing window
// of closes. PercentB defaults to 0.5 on a degenerate (zero-width) band.
func ComputeBollingerBands(closes []float64, price float64) (BollingerBands, bool) {
	if len(closes) < bollingerPeriod {
		return BollingerBands{}, false
	}
	mean := SMA(closes, bollingerPeriod)
	sd := StdDev(closes, bollingerPeriod)

	b := BollingerBands{
		Middle: mean,
		Upper:  mean + bollingerStdDev*sd,
		Lower:  mean - bollingerStdDev*sd,
	}
	if mean != 0 {
		b.Bandwidth = (b.Upper - b.Lower) / mean
	}
	if width := b.Upper - b.Lower; width > 0 {
		b.PercentB = (price - b.Lower) / width
	} else {
		b.PercentB = 0.5
	}
	return b, true
}

// AnalyzeBollinger detects squeezes (contracting bands ahead of a breakout)
// and expansion breakouts, falling back to %B mean-reversion extremes.
func AnalyzeBollinger(snap *market.Snapshot) Signal {
	closes := snap.Closes()
	current, ok := ComputeBollingerBands(closes, snap.Price)
	if !ok {
		return neutral(NameBollinger, WeightBollinger, 0.1, "insufficient history for Bollinger bands")
	}

	// Bandwidth five periods ago over the same window length; without the
	// extra history the comparison is a no-op (ratio 1).
	widthRatio := 1.0
	if len(closes) >= bollingerPeriod+bollingerSqueezeLookback {
		earlierWindow := closes[:len(closes)-bollingerSqueezeLookback]
		earlierPrice := earlierWindow[len(earlierWindow)-1]
		if earlier, eok := ComputeBollingerBands(earlierWindow, earlierPrice); eok && earlier.Bandwidth > 0 {
			widthRatio = current.Bandwidth / earlier.Bandwidth
		}
	}

	switch {
	case widthRatio < 0.75:
		return neutral(NameBollinger, WeightBollinger, 0.3,
			fmt.Sprintf("band squeeze (width %.0f%% of recent), breakout imminent", widthRatio*100))
	case widthRatio > 1.25 && current.PercentB > 0.85:
		return Signal{Name: NameBollinger, Direction: Buy, Strength: 0.7, Weight: WeightBollinger,
			Detail: fmt.Sprintf("band expansion breakout upward (%%B %.2f)", current.PercentB)}
	case widthRatio > 1.25 && current.PercentB < 0.15:
		return Signal{Name: NameBollinger, Direction: Sell, Strength: 0.7, Weight: WeightBollinger,
			Detail: fmt.Sprintf("band expansion breakdown (%%B %.2f)", current.PercentB)}
	case current.PercentB > 0.90:
		return Signal{Name: NameBollinger, Direction: Sell, Strength: 0.5, Weight: WeightBollinger,
			Detail: fmt.Sprintf("price riding upper band (%%B %.2f), mean-reversion risk", current.PercentB)}
	case current.PercentB < 0.10:
		return Signal{Name: NameBollinger, Direction: Buy, Strength: 0.5, Weight: WeightBollinger,
			Detail: fmt.Sprintf("price pinned to lower band (%%B %.2f), mean-reversion bounce", current.PercentB)}
	}

	return neutral(NameBollinger, WeightBollinger, 0.15,
		fmt.Sprintf("price inside bands (%%B %.2f)", current.PercentB))
}
