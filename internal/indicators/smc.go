package indicators

import (
	"fmt"

	"agent-trading-engine/internal/market"
)

const (
	// Minimum follow-through move that promotes a candle to an order block.
	orderBlockMovePct = 2.0
	// Bars the follow-through must occur within.
	orderBlockWindow = 3
	// Prior candles a liquidity sweep must pierce.
	sweepLookback = 3
)

// OrderBlockKind marks the side of an order block zone.
type OrderBlockKind string

const (
	SupportBlock    OrderBlockKind = "support"
	ResistanceBlock OrderBlockKind = "resistance"
)

// OrderBlock is a candle range where institutional orders likely rest.
type OrderBlock struct {
	Kind OrderBlockKind
	Low  float64
	High float64
}

// FairValueGap is a 3-candle imbalance the market tends to revisit.
type FairValueGap struct {
	Bullish bool
	Low     float64
	High    float64
}

// FindOrderBlocks scans for candles that preceded a decisive move: a
// bearish candle followed within three bars by a rally of at least 2% from
// its open marks a support block, mirrored for resistance.
func FindOrderBlocks(klines []market.Kline) []OrderBlock {
	var blocks []OrderBlock
	for i := 0; i < len(klines)-1; i++ {
		k := klines[i]
		end := i + orderBlockWindow
		if end >= len(klines) {
			end = len(klines) - 1
		}
		if k.IsBearish() {
			for j := i + 1; j <= end; j++ {
				if k.Open > 0 && (klines[j].Close-k.Open)/k.Open*100 >= orderBlockMovePct {
					blocks = append(blocks, OrderBlock{Kind: SupportBlock, Low: k.Low, High: k.High})
					break
				}
			}
		} else if k.IsBullish() {
			for j := i + 1; j <= end; j++ {
				if k.Open > 0 && (k.Open-klines[j].Close)/k.Open*100 >= orderBlockMovePct {
					blocks = append(blocks, OrderBlock{Kind: ResistanceBlock, Low: k.Low, High: k.High})
					break
				}
			}
		}
	}
	return blocks
}

// FindFairValueGaps returns 3-candle gaps whose zone the current price has
// not yet traded back through.
func FindFairValueGaps(klines []market.Kline, price float64) []FairValueGap {
	var gaps []FairValueGap
	for i := 0; i+2 < len(klines); i++ {
		a, c := klines[i], klines[i+2]
		if a.High < c.Low {
			gap := FairValueGap{Bullish: true, Low: a.High, High: c.Low}
			if price > gap.High { // unfilled while price holds above the zone
				gaps = append(gaps, gap)
			}
		} else if a.Low > c.High {
			gap := FairValueGap{Bullish: false, Low: c.High, High: a.Low}
			if price < gap.Low {
				gaps = append(gaps, gap)
			}
		}
	}
	return gaps
}

// detectSweep checks whether the latest candle ran the prior 3-candle
// extreme and closed back inside: a liquidity trap.
func detectSweep(klines []market.Kline) (Direction, bool) {
	if len(klines) < sweepLookback+1 {
		return Neutral, false
	}
	last := klines[len(klines)-1]
	priorHigh, priorLow := klines[len(klines)-1-sweepLookback].High, klines[len(klines)-1-sweepLookback].Low
	for _, k := range klines[len(klines)-1-sweepLookback : len(klines)-1] {
		if k.High > priorHigh {
			priorHigh = k.High
		}
		if k.Low < priorLow {
			priorLow = k.Low
		}
	}
	if last.High > priorHigh && last.Close < priorHigh {
		return Sell, true // swept the highs, closed back below: bearish trap
	}
	if last.Low < priorLow && last.Close > priorLow {
		return Buy, true // swept the lows, reclaimed: bullish trap
	}
	return Neutral, false
}

// AnalyzeSMC evaluates smart-money heuristics: liquidity sweeps first, then
// revisited order blocks, with unfilled fair-value gaps annotated. Without
// candles it approximates from the 24h range position and short momentum.
func AnalyzeSMC(snap *market.Snapshot) Signal {
	if len(snap.Klines) == 0 {
		return approximateSMC(snap)
	}

	gaps := FindFairValueGaps(snap.Klines, snap.Price)
	gapNote := ""
	if n := len(gaps); n > 0 {
		gapNote = fmt.Sprintf("; %d unfilled fair-value gap(s)", n)
	}

	if dir, ok := detectSweep(snap.Klines); ok {
		if dir == Buy {
			return Signal{Name: NameSMC, Direction: Buy, Strength: 0.85, Weight: WeightSMC,
				Detail: "bullish liquidity sweep: lows run and reclaimed" + gapNote}
		}
		return Signal{Name: NameSMC, Direction: Sell, Strength: 0.85, Weight: WeightSMC,
			Detail: "bearish liquidity sweep: highs run and rejected" + gapNote}
	}

	for _, b := range FindOrderBlocks(snap.Klines) {
		if snap.Price >= b.Low && snap.Price <= b.High {
			if b.Kind == SupportBlock {
				return Signal{Name: NameSMC, Direction: Buy, Strength: 0.6, Weight: WeightSMC,
					Detail: fmt.Sprintf("price revisiting support order block %.4f-%.4f", b.Low, b.High) + gapNote}
			}
			return Signal{Name: NameSMC, Direction: Sell, Strength: 0.6, Weight: WeightSMC,
				Detail: fmt.Sprintf("price revisiting resistance order block %.4f-%.4f", b.Low, b.High) + gapNote}
		}
	}

	return neutral(NameSMC, WeightSMC, 0.1, "no smart-money pattern in range"+gapNote)
}

// approximateSMC stands in for candle analysis: a washed-out range low with
// recovering short momentum reads like a swept low, and the mirror at the
// range high like a swept high.
func approximateSMC(snap *market.Snapshot) Signal {
	switch {
	case snap.RangePercent <= 25 && snap.Change1h > 0.3:
		return Signal{Name: NameSMC, Direction: Buy, Strength: 0.6, Weight: WeightSMC,
			Detail: fmt.Sprintf("range low reclaim (%.0f%% of 24h range, 1h +%.1f%%)", snap.RangePercent, snap.Change1h)}
	case snap.RangePercent >= 75 && snap.Change1h < -0.3:
		return Signal{Name: NameSMC, Direction: Sell, Strength: 0.6, Weight: WeightSMC,
			Detail: fmt.Sprintf("range high rejection (%.0f%% of 24h range, 1h %.1f%%)", snap.RangePercent, snap.Change1h)}
	}
	return neutral(NameSMC, WeightSMC, 0.1, "no candle history, range position unremarkable")
}
