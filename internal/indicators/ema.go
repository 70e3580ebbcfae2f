package indicators

import (
	"fmt"

	"agent-trading-engine/internal/market"
)

// EMA stack periods. The 200 line only participates when enough history
// exists to seed it.
var emaStackPeriods = []int{9, 21, 55, 89, 200}

// EMAStackResult captures the per-line state the regime detector also
// consumes.
type EMAStackResult struct {
	Periods          []int
	Latest           []float64
	Previous         []float64 // NaN-free: only filled where a prior sample exists
	PriceAboveCount  int
	BullishAlignment int
	BearishAlignment int
	GoldenCross      bool
	DeathCross       bool
}

// Lines returns the number of usable EMA lines.
func (r EMAStackResult) Lines() int { return len(r.Periods) }

// ComputeEMAStack evaluates every EMA line the close history can support.
// Lines with insufficient history are excluded from alignment counts.
func ComputeEMAStack(closes []float64, price float64) EMAStackResult {
	res := EMAStackResult{}
	var prevSample []float64
	hasPrev := len(closes) > 1

	for _, period := range emaStackPeriods {
		series := EMASeries(closes, period)
		if len(series) == 0 {
			continue
		}
		res.Periods = append(res.Periods, period)
		res.Latest = append(res.Latest, series[len(series)-1])
		if hasPrev && len(series) >= 2 {
			prevSample = append(prevSample, series[len(series)-2])
		} else {
			prevSample = append(prevSample, series[len(series)-1])
		}
	}
	res.Previous = prevSample

	for _, ema := range res.Latest {
		if price > ema {
			res.PriceAboveCount++
		}
	}
	for i := 0; i+1 < len(res.Latest); i++ {
		if res.Latest[i] > res.Latest[i+1] {
			res.BullishAlignment++
		} else if res.Latest[i] < res.Latest[i+1] {
			res.BearishAlignment++
		}
	}

	// Cross detection on the 9/21 pair: latest sample versus the prior one.
	if len(res.Periods) >= 2 && res.Periods[0] == 9 && res.Periods[1] == 21 {
		nowAbove := res.Latest[0] > res.Latest[1]
		wasAtOrBelow := res.Previous[0] <= res.Previous[1]
		res.GoldenCross = nowAbove && wasAtOrBelow

		nowBelow := res.Latest[0] < res.Latest[1]
		wasAtOrAbove := res.Previous[0] >= res.Previous[1]
		res.DeathCross = nowBelow && wasAtOrAbove
	}

	return res
}

// AnalyzeEMAStack produces the EMA stack confluence signal: crosses first,
// then alignment ratio, else a weak neutral.
func AnalyzeEMAStack(snap *market.Snapshot) Signal {
	closes := snap.Closes()
	stack := ComputeEMAStack(closes, snap.Price)
	n := stack.Lines()
	if n == 0 {
		return neutral(NameEMAStack, WeightEMAStack, 0.1, "insufficient history for EMA stack")
	}

	if stack.GoldenCross {
		return Signal{
			Name: NameEMAStack, Direction: Buy, Strength: 0.9, Weight: WeightEMAStack,
			Detail: "golden cross: EMA9 crossed above EMA21",
		}
	}
	if stack.DeathCross {
		return Signal{
			Name: NameEMAStack, Direction: Sell, Strength: 0.9, Weight: WeightEMAStack,
			Detail: "death cross: EMA9 crossed below EMA21",
		}
	}

	// Alignment + price position out of the 2N-1 possible bullish marks.
	denom := float64(2*n - 1)
	bullRatio := (float64(stack.BullishAlignment) + float64(stack.PriceAboveCount)) / denom
	bearRatio := (float64(stack.BearishAlignment) + float64(n-stack.PriceAboveCount)) / denom

	if bullRatio > 0.65 {
		return Signal{
			Name: NameEMAStack, Direction: Buy, Strength: clamp01(bullRatio), Weight: WeightEMAStack,
			Detail: fmt.Sprintf("bullish EMA alignment %.0f%% (price above %d/%d lines)", bullRatio*100, stack.PriceAboveCount, n),
		}
	}
	if bearRatio > 0.65 {
		return Signal{
			Name: NameEMAStack, Direction: Sell, Strength: clamp01(bearRatio), Weight: WeightEMAStack,
			Detail: fmt.Sprintf("bearish EMA alignment %.0f%% (price below %d/%d lines)", bearRatio*100, n-stack.PriceAboveCount, n),
		}
	}

	return neutral(NameEMAStack, WeightEMAStack, 0.2,
		fmt.Sprintf("mixed EMA stack (%d/%d lines below price)", stack.PriceAboveCount, n))
}
