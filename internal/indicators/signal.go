// Package indicators implements the technical-analysis modules feeding the
// confluence scorer. Each module is a pure function over a market snapshot
// producing one Signal; insufficient history degrades to a low-strength
// NEUTRAL signal instead of an error.
package indicators

// Direction is the directional vote of a single indicator.
type Direction string

const (
	Buy     Direction = "BUY"
	Sell    Direction = "SELL"
	Neutral Direction = "NEUTRAL"
)

// Module names referenced by the scorer's trait weighting.
const (
	NameEMAStack  = "ema_stack"
	NameVolume    = "volume"
	NameRSI       = "rsi"
	NameMACD      = "macd"
	NameBollinger = "bollinger"
	NameSMC       = "smc"
	NameIchimoku  = "ichimoku"
	NameStructure = "structure"
	NameATRRisk   = "atr_risk"
)

// Base module weights before trait scaling.
const (
	WeightEMAStack  = 2.0
	WeightVolume    = 1.5
	WeightRSI       = 1.5
	WeightMACD      = 1.5
	WeightBollinger = 1.0
	WeightSMC       = 1.8
	WeightIchimoku  = 2.0
	WeightStructure = 1.5
	WeightATRRisk   = 1.0
)

// Signal is the output of one indicator module. Signals are ephemeral:
// produced and consumed within a single decision call.
type Signal struct {
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Strength  float64   `json:"strength"` // 0..1
	Weight    float64   `json:"weight"`   // base module weight
	Detail    string    `json:"detail"`
}

func neutral(name string, weight, strength float64, detail string) Signal {
	return Signal{Name: name, Direction: Neutral, Strength: strength, Weight: weight, Detail: detail}
}
