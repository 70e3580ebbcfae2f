package indicators

import (
	"fmt"

	"agent-trading-engine/internal/market"
)

const (
	tenkanPeriod = 9
	kijunPeriod  = 26
	senkouPeriod = 52
	// one prior sample is needed on top of the Kijun window for cross detection
	ichimokuCrossMin = kijunPeriod + 1
)

// IchimokuState is one evaluation of the cloud system.
type IchimokuState struct {
	Tenkan, Kijun         float64
	PrevTenkan, PrevKijun float64
	SenkouA, SenkouB      float64
	CloudTop, CloudBottom float64
	HasCloud              bool
	CrossUp, CrossDown    bool
}

// ComputeIchimoku evaluates Tenkan/Kijun and, with enough history, the
// cloud. Candle highs/lows are used when available; a bare close history
// degrades to closes on both sides of the midpoint.
func ComputeIchimoku(snap *market.Snapshot) (IchimokuState, bool) {
	highs, lows := seriesHighsLows(snap)
	n := len(highs)
	if n < ichimokuCrossMin {
		return IchimokuState{}, false
	}

	st := IchimokuState{}
	st.Tenkan, _ = midpoint(highs, lows, tenkanPeriod)
	st.Kijun, _ = midpoint(highs, lows, kijunPeriod)
	st.PrevTenkan, _ = midpoint(highs[:n-1], lows[:n-1], tenkanPeriod)
	st.PrevKijun, _ = midpoint(highs[:n-1], lows[:n-1], kijunPeriod)

	st.CrossUp = st.Tenkan > st.Kijun && st.PrevTenkan <= st.PrevKijun
	st.CrossDown = st.Tenkan < st.Kijun && st.PrevTenkan >= st.PrevKijun

	if senkouB, ok := midpoint(highs, lows, senkouPeriod); ok {
		st.SenkouA = (st.Tenkan + st.Kijun) / 2
		st.SenkouB = senkouB
		st.CloudTop = st.SenkouA
		st.CloudBottom = st.SenkouB
		if st.CloudBottom > st.CloudTop {
			st.CloudTop, st.CloudBottom = st.CloudBottom, st.CloudTop
		}
		st.HasCloud = true
	}
	return st, true
}

// AnalyzeIchimoku grades Tenkan/Kijun crosses by cloud confirmation, then
// falls back to position relative to the cloud.
func AnalyzeIchimoku(snap *market.Snapshot) Signal {
	st, ok := ComputeIchimoku(snap)
	if !ok {
		return neutral(NameIchimoku, WeightIchimoku, 0.1, "insufficient history for Ichimoku")
	}

	price := snap.Price
	aboveCloud := st.HasCloud && price > st.CloudTop
	belowCloud := st.HasCloud && price < st.CloudBottom

	switch {
	case st.CrossUp && aboveCloud:
		return Signal{Name: NameIchimoku, Direction: Buy, Strength: 0.90, Weight: WeightIchimoku,
			Detail: "Tenkan/Kijun cross up above the cloud"}
	case st.CrossDown && belowCloud:
		return Signal{Name: NameIchimoku, Direction: Sell, Strength: 0.90, Weight: WeightIchimoku,
			Detail: "Tenkan/Kijun cross down below the cloud"}
	case st.CrossUp:
		return Signal{Name: NameIchimoku, Direction: Buy, Strength: 0.65, Weight: WeightIchimoku,
			Detail: "Tenkan/Kijun cross up without cloud confirmation"}
	case st.CrossDown:
		return Signal{Name: NameIchimoku, Direction: Sell, Strength: 0.65, Weight: WeightIchimoku,
			Detail: "Tenkan/Kijun cross down without cloud confirmation"}
	case aboveCloud && st.Tenkan > st.Kijun:
		return Signal{Name: NameIchimoku, Direction: Buy, Strength: 0.55, Weight: WeightIchimoku,
			Detail: fmt.Sprintf("price above cloud, Tenkan %.4f > Kijun %.4f", st.Tenkan, st.Kijun)}
	case belowCloud && st.Tenkan < st.Kijun:
		return Signal{Name: NameIchimoku, Direction: Sell, Strength: 0.55, Weight: WeightIchimoku,
			Detail: fmt.Sprintf("price below cloud, Tenkan %.4f < Kijun %.4f", st.Tenkan, st.Kijun)}
	}

	return neutral(NameIchimoku, WeightIchimoku, 0.2, "price inside or without cloud, no cross")
}

func seriesHighsLows(snap *market.Snapshot) (highs, lows []float64) {
	if len(snap.Klines) > 0 {
		highs = make([]float64, len(snap.Klines))
		lows = make([]float64, len(snap.Klines))
		for i, k := range snap.Klines {
			highs[i] = k.High
			lows[i] = k.Low
		}
		return highs, lows
	}
	closes := snap.Closes()
	return closes, closes
}
