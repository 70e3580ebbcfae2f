// Package agent defines the trait profile that personalizes decision
// making per trading agent.
package agent

// Traits holds the agent's personality and skill values, each in [0,100].
// Traits are owned by the agent record and read-only to the engine.
type Traits struct {
	// Core traits.
	Aggression         float64 `json:"aggression" mapstructure:"aggression"`
	RiskTolerance      float64 `json:"risk_tolerance" mapstructure:"risk_tolerance"`
	PatternRecognition float64 `json:"pattern_recognition" mapstructure:"pattern_recognition"`
	ContrarianBias     float64 `json:"contrarian_bias" mapstructure:"contrarian_bias"`
	TimingSensitivity  float64 `json:"timing_sensitivity" mapstructure:"timing_sensitivity"`

	// Skill traits.
	EMASkill        float64 `json:"ema_skill" mapstructure:"ema_skill"`
	SMCAwareness    float64 `json:"smc_awareness" mapstructure:"smc_awareness"`
	IchimokuMastery float64 `json:"ichimoku_mastery" mapstructure:"ichimoku_mastery"`
	ATRDiscipline   float64 `json:"atr_discipline" mapstructure:"atr_discipline"`
}

// DefaultTraits returns a balanced mid-range profile.
func DefaultTraits() Traits {
	return Traits{
		Aggression:         50,
		RiskTolerance:      50,
		PatternRecognition: 50,
		ContrarianBias:     50,
		TimingSensitivity:  50,
		EMASkill:           50,
		SMCAwareness:       50,
		IchimokuMastery:    50,
		ATRDiscipline:      50,
	}
}

// Clamped returns a copy with every trait bounded to [0,100]. Out-of-range
// traits are upstream defects; clamping keeps the weighting math sane.
func (t Traits) Clamped() Traits {
	c := t
	for _, f := range []*float64{
		&c.Aggression, &c.RiskTolerance, &c.PatternRecognition,
		&c.ContrarianBias, &c.TimingSensitivity,
		&c.EMASkill, &c.SMCAwareness, &c.IchimokuMastery, &c.ATRDiscipline,
	} {
		if *f < 0 {
			*f = 0
		}
		if *f > 100 {
			*f = 100
		}
	}
	return c
}

// IsContrarian reports whether the agent fades crowd consensus.
func (t Traits) IsContrarian() bool { return t.ContrarianBias > 70 }
