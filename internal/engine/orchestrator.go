// Package engine orchestrates one full decision pass: session and fund
// gates, signal analysis, confluence scoring, exit management, and
// position sizing, in a fixed order so every decision is reproducible
// from its inputs.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"agent-trading-engine/internal/agent"
	"agent-trading-engine/internal/confluence"
	"agent-trading-engine/internal/indicators"
	"agent-trading-engine/internal/market"
	"agent-trading-engine/internal/portfolio"
	"agent-trading-engine/internal/regime"
	"agent-trading-engine/internal/session"
)

// ErrNoMarketData is returned when an evaluation is requested without a
// market snapshot.
var ErrNoMarketData = errors.New("engine: no market data for evaluation")

const (
	stopLossConfidence   = 90
	takeProfitConfidence = 85
)

// Input is everything one evaluation consumes. The engine never fetches;
// callers supply fresh market and portfolio state per call.
type Input struct {
	AgentID   string             `json:"agent_id"`
	Traits    agent.Traits       `json:"traits"`
	Market    *market.Snapshot   `json:"market"`
	Portfolio portfolio.Snapshot `json:"portfolio"`
}

// Engine is the decision orchestrator. Safe for concurrent use; per-agent
// evaluations are serialized on the agent's session lock.
type Engine struct {
	log      zerolog.Logger
	sessions *session.Store
	guard    *portfolio.Guard

	now func() time.Time
}

// New builds an engine over the given session governor and portfolio guard.
func New(log zerolog.Logger, sessions *session.Store, guard *portfolio.Guard) *Engine {
	return &Engine{
		log:      log.With().Str("component", "engine").Logger(),
		sessions: sessions,
		guard:    guard,
		now:      time.Now,
	}
}

// Evaluate runs the full decision pipeline for one agent. It always
// returns a decision on success; blocked evaluations come back as HOLD
// with the blocking reason, never as errors.
func (e *Engine) Evaluate(ctx context.Context, in Input) (*Decision, error) {
	if in.Market == nil {
		return nil, ErrNoMarketData
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess := e.sessions.Get(in.AgentID)
	sess.Lock()
	defer sess.Unlock()

	now := e.now()
	d := newDecision(in.AgentID, in.Market.Symbol)
	assess := e.guard.Assess(in.Portfolio)

	// Fund gate.
	if assess.IsFundsTooLow {
		d.Confidence = 100
		d.Reasoning = fmt.Sprintf("insufficient funds: equity %.2f below minimum", assess.Equity)
		d.RiskSummary = riskSummary(indicators.ATRProfile{}, assess)
		return e.finish(d, sess, now), nil
	}

	// Session gates: trade cap, then cooldown.
	if reason, ok := e.sessions.CanTrade(sess, now); !ok {
		d.Confidence = 100
		d.Reasoning = reason
		return e.finish(d, sess, now), nil
	}

	snap := market.EnsureHistory(in.Market)
	profile := indicators.ComputeATRProfile(snap)
	signals := append(indicators.AnalyzeAll(snap), profile.Signal())
	reg := regime.Detect(snap)
	res := confluence.Score(signals, in.Traits, reg)

	d.Signals = signals
	d.Profile = &profile
	d.Regime = reg
	d.TechnicalSummary = technicalSummary(signals, reg)
	d.RiskSummary = riskSummary(profile, assess)

	// Exit management runs before any entry logic.
	if in.Portfolio.HasPosition() {
		if exit := e.evaluateExit(d, in, profile, res); exit {
			return e.finish(d, sess, now), nil
		}
	} else if res.Action == confluence.ActionSell {
		d.Reasoning = "sell confluence with no open position"
		d.Confidence = holdFromScore(res)
		return e.finish(d, sess, now), nil
	}

	if res.Action != confluence.ActionBuy {
		d.Confidence = float64(res.Confidence)
		d.Reasoning = res.Reason
		return e.finish(d, sess, now), nil
	}

	// Entry gates.
	switch {
	case in.Portfolio.HasPosition():
		d.Reasoning = "buy confluence while position already open"
		d.Confidence = holdFromScore(res)
	case assess.IsOverexposed:
		d.Reasoning = fmt.Sprintf("buy blocked: exposure %.1f%% over limit", assess.ExposurePct)
		d.Confidence = holdFromScore(res)
	case assess.TradableAmount <= 0:
		d.Reasoning = "buy blocked: reserves leave no tradable cash"
		d.Confidence = holdFromScore(res)
	default:
		pct, amount := suggestSize(in.Traits, profile, assess)
		if !amount.IsPositive() {
			d.Reasoning = "buy blocked: sized amount not positive"
			d.Confidence = holdFromScore(res)
			break
		}
		d.Action = confluence.ActionBuy
		d.Confidence = float64(res.Confidence)
		d.SuggestedPercent = pct
		d.Amount = amount
		d.StopLoss = snap.Price * (1 - profile.StopPercent/100)
		d.TakeProfit = snap.Price * (1 + profile.TargetPercent/100)
		d.Reasoning = buyReasoning(res, pct)
	}

	return e.finish(d, sess, now), nil
}

// evaluateExit handles the sell side for an open position. Hard exits
// (stop loss, take profit) outrank confluence sells. Reports whether a
// terminal sell decision was written.
func (e *Engine) evaluateExit(d *Decision, in Input, profile indicators.ATRProfile, res confluence.Result) bool {
	pos := in.Portfolio.Position
	price := in.Market.Price
	if pos.EntryPrice <= 0 || price <= 0 {
		return false
	}

	stop := pos.EntryPrice * (1 - profile.StopPercent/100)
	target := pos.EntryPrice * (1 + profile.TargetPercent/100)
	pnlPct := (price - pos.EntryPrice) / pos.EntryPrice * 100

	switch {
	case profile.StopPercent > 0 && price <= stop:
		d.Action = confluence.ActionSell
		d.Confidence = stopLossConfidence
		d.Reasoning = fmt.Sprintf("stop loss: price %.4f at or below stop %.4f (%.2f%%)", price, stop, pnlPct)
	case profile.TargetPercent > 0 && price >= target:
		d.Action = confluence.ActionSell
		d.Confidence = takeProfitConfidence
		d.Reasoning = fmt.Sprintf("take profit: price %.4f at or above target %.4f (+%.2f%%)", price, target, pnlPct)
	case res.Action == confluence.ActionSell:
		d.Action = confluence.ActionSell
		d.Confidence = float64(res.Confidence)
		d.Reasoning = sellReasoning(res)
	default:
		return false
	}
	return true
}

// finish stamps executed trades into the session and logs the decision.
func (e *Engine) finish(d *Decision, sess *session.Session, now time.Time) *Decision {
	if d.Action != confluence.ActionHold {
		sess.Record(string(d.Action), now)
	}
	e.log.Info().
		Str("agent_id", d.AgentID).
		Str("symbol", d.Symbol).
		Str("action", string(d.Action)).
		Float64("confidence", d.Confidence).
		Float64("suggested_pct", d.SuggestedPercent).
		Str("regime", string(d.Regime)).
		Str("reason", d.Reasoning).
		Msg("decision")
	return d
}

// holdFromScore keeps some signal texture in a blocked decision's
// confidence instead of flattening everything to the same number.
func holdFromScore(res confluence.Result) float64 {
	c := float64(res.Confidence) - 10
	if c < 50 {
		c = 50
	}
	return c
}
