// Package scheduler drives continuous evaluation: one goroutine per agent
// on a fixed cadence, all bound to a shared context so one cancellation
// stops the fleet.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"agent-trading-engine/internal/agent"
	"agent-trading-engine/internal/engine"
	"agent-trading-engine/internal/marketdata"
	"agent-trading-engine/internal/paper"
)

// AgentSpec binds one agent to the symbol it trades.
type AgentSpec struct {
	ID     string       `mapstructure:"id"`
	Symbol string       `mapstructure:"symbol"`
	Traits agent.Traits `mapstructure:"traits"`
}

// Scheduler runs the evaluate-execute cycle for a fleet of agents.
type Scheduler struct {
	engine   *engine.Engine
	provider marketdata.Provider
	store    *paper.Store
	executor *paper.Executor
	cadence  time.Duration
	log      zerolog.Logger
}

// New wires a scheduler. Cadence must be positive.
func New(eng *engine.Engine, provider marketdata.Provider, store *paper.Store, executor *paper.Executor, cadence time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		engine:   eng,
		provider: provider,
		store:    store,
		executor: executor,
		cadence:  cadence,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Run blocks until ctx is cancelled, evaluating every agent on the
// configured cadence. Fetch and evaluation errors are logged and the
// cycle skipped; only context cancellation ends the run.
func (s *Scheduler) Run(ctx context.Context, agents []AgentSpec) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, spec := range agents {
		spec := spec
		g.Go(func() error {
			return s.runAgent(ctx, spec)
		})
	}
	return g.Wait()
}

func (s *Scheduler) runAgent(ctx context.Context, spec AgentSpec) error {
	log := s.log.With().Str("agent_id", spec.ID).Str("symbol", spec.Symbol).Logger()
	ticker := time.NewTicker(s.cadence)
	defer ticker.Stop()

	// First cycle fires immediately rather than one cadence in.
	for {
		s.cycle(ctx, spec, log)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context, spec AgentSpec, log zerolog.Logger) {
	snap, err := s.provider.Snapshot(ctx, spec.Symbol)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot fetch failed, skipping cycle")
		return
	}

	decision, err := s.engine.Evaluate(ctx, engine.Input{
		AgentID:   spec.ID,
		Traits:    spec.Traits,
		Market:    snap,
		Portfolio: s.store.Snapshot(spec.ID, snap.Price),
	})
	if err != nil {
		log.Warn().Err(err).Msg("evaluation failed, skipping cycle")
		return
	}

	if err := s.executor.Apply(decision, snap.Price); err != nil {
		log.Error().Err(err).Str("action", string(decision.Action)).Msg("paper execution failed")
	}
}
