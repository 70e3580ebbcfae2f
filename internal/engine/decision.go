package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"agent-trading-engine/internal/confluence"
	"agent-trading-engine/internal/indicators"
	"agent-trading-engine/internal/regime"
)

// Decision is the terminal output of one evaluation pass. It is a pure
// recommendation record; execution (paper or live) happens downstream.
type Decision struct {
	ID      string `json:"id"`
	AgentID string `json:"agent_id"`
	Symbol  string `json:"symbol"`

	Action     confluence.Action `json:"action"`
	Confidence float64           `json:"confidence"`

	// SuggestedPercent is the equity fraction to deploy on a BUY, in
	// percent. Zero for SELL and HOLD.
	SuggestedPercent float64 `json:"suggested_percent"`
	// Amount is SuggestedPercent applied to current equity.
	Amount decimal.Decimal `json:"amount"`

	Reasoning        string `json:"reasoning"`
	TechnicalSummary string `json:"technical_summary"`
	RiskSummary      string `json:"risk_summary"`

	StopLoss   float64 `json:"stop_loss,omitempty"`
	TakeProfit float64 `json:"take_profit,omitempty"`

	Signals []indicators.Signal    `json:"signals"`
	Profile *indicators.ATRProfile `json:"atr_profile,omitempty"`
	Regime  regime.Regime          `json:"regime"`

	CreatedAt time.Time `json:"created_at"`
}

func newDecision(agentID, symbol string) *Decision {
	return &Decision{
		ID:        uuid.NewString(),
		AgentID:   agentID,
		Symbol:    symbol,
		Action:    confluence.ActionHold,
		CreatedAt: time.Now().UTC(),
	}
}
