// Package confluence aggregates indicator signals into one directional
// decision, weighting each module by the agent's trait profile.
package confluence

import (
	"fmt"
	"math"

	"agent-trading-engine/internal/agent"
	"agent-trading-engine/internal/indicators"
	"agent-trading-engine/internal/regime"
)

// Action is the scorer's verdict over one signal set.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Scoring constants. The buy threshold scales with aggression while the
// sell side stays fixed so exits never get harder to reach than entries.
const (
	buyThresholdBase  = 2.5
	buyThresholdSpan  = 2.0
	sellThreshold     = 2.0
	confidenceBase    = 55.0
	confidencePerUnit = 8.0
	confidencePerVote = 3.0
	buyConfidenceCap  = 95
	sellConfidenceCap = 92
	holdConfidence    = 50
)

// Result carries the scorer verdict plus everything rationale assembly and
// tests need to inspect.
type Result struct {
	Action     Action
	Confidence int

	BuyScore  float64
	SellScore float64
	BuyCount  int
	SellCount int

	BuyThreshold  float64
	SellThreshold float64
	MinRequired   int

	Contrarian bool
	Supporting []indicators.Signal // signals voting the decided direction
	Reason     string
}

// Score aggregates the signal set under the agent's traits and the current
// regime. Strong downtrends veto new buys outright.
func Score(signals []indicators.Signal, traits agent.Traits, reg regime.Regime) Result {
	traits = traits.Clamped()

	res := Result{
		BuyThreshold:  buyThresholdBase + buyThresholdSpan*traits.Aggression/100,
		SellThreshold: sellThreshold,
		MinRequired:   minRequiredSignals(traits),
		Contrarian:    traits.IsContrarian(),
	}

	var buySignals, sellSignals []indicators.Signal
	for _, s := range signals {
		effective := scaledWeight(s, traits) * s.Strength
		switch s.Direction {
		case indicators.Buy:
			res.BuyScore += effective
			res.BuyCount++
			buySignals = append(buySignals, s)
		case indicators.Sell:
			res.SellScore += effective
			res.SellCount++
			sellSignals = append(sellSignals, s)
		}
	}

	// Fade-the-crowd inversion: the agent reads consensus as a trap.
	if res.Contrarian {
		res.BuyScore, res.SellScore = res.SellScore, res.BuyScore
		res.BuyCount, res.SellCount = res.SellCount, res.BuyCount
		buySignals, sellSignals = sellSignals, buySignals
	}

	sellRequired := res.MinRequired - 1
	if sellRequired < 2 {
		sellRequired = 2
	}

	switch {
	case res.BuyScore >= res.BuyThreshold && res.BuyCount >= res.MinRequired && reg != regime.StrongDowntrend:
		res.Action = ActionBuy
		res.Confidence = confidence(res.BuyScore, res.BuyThreshold, res.BuyCount, buyConfidenceCap)
		res.Supporting = buySignals
		res.Reason = fmt.Sprintf("buy confluence %.2f over threshold %.2f from %d signals",
			res.BuyScore, res.BuyThreshold, res.BuyCount)
	case res.SellScore >= res.SellThreshold && res.SellCount >= sellRequired:
		res.Action = ActionSell
		res.Confidence = confidence(res.SellScore, res.SellThreshold, res.SellCount, sellConfidenceCap)
		res.Supporting = sellSignals
		res.Reason = fmt.Sprintf("sell confluence %.2f over threshold %.2f from %d signals",
			res.SellScore, res.SellThreshold, res.SellCount)
	default:
		res.Action = ActionHold
		res.Confidence = holdConfidence
		res.Reason = fmt.Sprintf("no confluence: buy %.2f/%.2f (%d votes), sell %.2f/%.2f (%d votes)",
			res.BuyScore, res.BuyThreshold, res.BuyCount, res.SellScore, res.SellThreshold, res.SellCount)
		if res.BuyScore >= res.BuyThreshold && res.BuyCount >= res.MinRequired && reg == regime.StrongDowntrend {
			res.Reason = "buy confluence vetoed by strong downtrend regime"
		}
	}

	return res
}

// minRequiredSignals maps timing sensitivity onto the confluence count
// requirement, 2 to 4 agreeing signals.
func minRequiredSignals(traits agent.Traits) int {
	return int(math.Round(2 + 2*traits.TimingSensitivity/100))
}

// scaledWeight applies the trait factor to the module's base weight. Skill
// factors span 0.75x to 1.5x of base, so the EMA module ranges 1.5-3.0.
func scaledWeight(s indicators.Signal, traits agent.Traits) float64 {
	factor := 1.0
	switch s.Name {
	case indicators.NameEMAStack:
		factor = skillFactor(traits.EMASkill)
	case indicators.NameSMC:
		factor = skillFactor(traits.SMCAwareness)
	case indicators.NameIchimoku:
		factor = skillFactor(traits.IchimokuMastery)
	case indicators.NameATRRisk:
		factor = skillFactor(traits.ATRDiscipline)
	case indicators.NameStructure, indicators.NameBollinger:
		factor = skillFactor(traits.PatternRecognition)
	}
	return s.Weight * factor
}

func skillFactor(skill float64) float64 {
	return 0.75 + 0.75*skill/100
}

func confidence(score, threshold float64, count, limit int) int {
	c := confidenceBase + (score-threshold)*confidencePerUnit + float64(count)*confidencePerVote
	if c < 0 {
		c = 0
	}
	if c > float64(limit) {
		c = float64(limit)
	}
	return int(math.Round(c))
}
