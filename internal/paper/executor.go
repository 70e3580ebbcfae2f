package paper

import (
	"github.com/rs/zerolog"

	"agent-trading-engine/internal/confluence"
	"agent-trading-engine/internal/engine"
)

// Executor applies engine decisions to the paper store at market price.
type Executor struct {
	store *Store
	log   zerolog.Logger
}

// NewExecutor wires an executor to the paper store.
func NewExecutor(store *Store, log zerolog.Logger) *Executor {
	return &Executor{
		store: store,
		log:   log.With().Str("component", "paper").Logger(),
	}
}

// Apply executes a non-HOLD decision. HOLDs are a no-op.
func (e *Executor) Apply(d *engine.Decision, price float64) error {
	switch d.Action {
	case confluence.ActionBuy:
		if err := e.store.Buy(d.AgentID, d.Symbol, d.Amount, price); err != nil {
			return err
		}
		e.log.Info().
			Str("agent_id", d.AgentID).
			Str("symbol", d.Symbol).
			Str("amount", d.Amount.StringFixed(2)).
			Float64("price", price).
			Msg("paper buy filled")
	case confluence.ActionSell:
		pnlPct, err := e.store.Sell(d.AgentID, price)
		if err != nil {
			return err
		}
		e.log.Info().
			Str("agent_id", d.AgentID).
			Str("symbol", d.Symbol).
			Float64("price", price).
			Float64("pnl_pct", pnlPct).
			Msg("paper sell filled")
	}
	return nil
}
