package indicators

import (
	"math"

	"agent-trading-engine/internal/market"
)

// MarketPhase classifies price structure from swing progression.
type MarketPhase string

const (
	PhaseMarkup       MarketPhase = "MARKUP"
	PhaseMarkdown     MarketPhase = "MARKDOWN"
	PhaseAccumulation MarketPhase = "ACCUMULATION"
	PhaseDistribution MarketPhase = "DISTRIBUTION"
	PhaseRanging      MarketPhase = "RANGING"
)

// FindSwings returns local swing highs and lows: points strictly above or
// below both neighbors, in series order.
func FindSwings(prices []float64) (highs, lows []float64) {
	for i := 1; i+1 < len(prices); i++ {
		if prices[i] > prices[i-1] && prices[i] > prices[i+1] {
			highs = append(highs, prices[i])
		}
		if prices[i] < prices[i-1] && prices[i] < prices[i+1] {
			lows = append(lows, prices[i])
		}
	}
	return highs, lows
}

// ClassifyStructure maps the last two swings on each side to a phase.
func ClassifyStructure(highs, lows []float64) (MarketPhase, bool) {
	if len(highs) < 2 || len(lows) < 2 {
		return PhaseRanging, false
	}
	hh := highs[len(highs)-1] > highs[len(highs)-2]
	hl := lows[len(lows)-1] > lows[len(lows)-2]

	switch {
	case hh && hl:
		return PhaseMarkup, true
	case !hh && !hl:
		return PhaseMarkdown, true
	case hl && !hh:
		return PhaseAccumulation, true // higher lows into lower highs: coiling
	default:
		return PhaseDistribution, true // lower lows under higher highs: expanding
	}
}

// AnalyzeStructure votes from swing progression, falling back to 24h/7d
// momentum when the history is too short to carry two swings per side.
func AnalyzeStructure(snap *market.Snapshot) Signal {
	highs, lows := FindSwings(snap.Closes())
	phase, ok := ClassifyStructure(highs, lows)
	if !ok {
		phase = momentumPhase(snap.Change24h, snap.Change7d)
	}
	return phaseSignal(phase)
}

// momentumPhase approximates the phase from medium-horizon momentum:
// +-3%/+-5% for markup/markdown, inside +-1.5%/+-3% for ranging.
func momentumPhase(change24h, change7d float64) MarketPhase {
	switch {
	case change24h > 3 && change7d > 5:
		return PhaseMarkup
	case change24h < -3 && change7d < -5:
		return PhaseMarkdown
	case math.Abs(change24h) < 1.5 && math.Abs(change7d) < 3:
		return PhaseRanging
	case change24h > 0:
		return PhaseAccumulation
	default:
		return PhaseDistribution
	}
}

func phaseSignal(phase MarketPhase) Signal {
	switch phase {
	case PhaseMarkup:
		return Signal{Name: NameStructure, Direction: Buy, Strength: 0.8, Weight: WeightStructure,
			Detail: "markup structure: higher highs and higher lows"}
	case PhaseMarkdown:
		return Signal{Name: NameStructure, Direction: Sell, Strength: 0.8, Weight: WeightStructure,
			Detail: "markdown structure: lower highs and lower lows"}
	case PhaseAccumulation:
		return Signal{Name: NameStructure, Direction: Buy, Strength: 0.5, Weight: WeightStructure,
			Detail: "accumulation: higher lows coiling under resistance"}
	case PhaseDistribution:
		return Signal{Name: NameStructure, Direction: Sell, Strength: 0.5, Weight: WeightStructure,
			Detail: "distribution: lower lows expanding under higher highs"}
	default:
		return neutral(NameStructure, WeightStructure, 0.2, "ranging structure, no directional swings")
	}
}

// Phase re-derives the classification for rationale text without emitting
// a signal.
func Phase(snap *market.Snapshot) MarketPhase {
	highs, lows := FindSwings(snap.Closes())
	if phase, ok := ClassifyStructure(highs, lows); ok {
		return phase
	}
	return momentumPhase(snap.Change24h, snap.Change7d)
}
