// Package paper provides the in-memory paper-trading layer: per-agent
// portfolios seeded with virtual cash, plus an execution step that applies
// engine decisions at market price. Nothing persists across restarts.
package paper

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"agent-trading-engine/internal/portfolio"
)

// Store holds the virtual portfolios keyed by agent id.
type Store struct {
	mu         sync.RWMutex
	portfolios map[string]*state
	startCash  decimal.Decimal
}

type state struct {
	cash     decimal.Decimal
	position *portfolio.Position
}

// NewStore seeds every agent with startingCash on first touch.
func NewStore(startingCash float64) *Store {
	return &Store{
		portfolios: make(map[string]*state),
		startCash:  decimal.NewFromFloat(startingCash),
	}
}

func (s *Store) get(agentID string) *state {
	if st, ok := s.portfolios[agentID]; ok {
		return st
	}
	st := &state{cash: s.startCash}
	s.portfolios[agentID] = st
	return st
}

// Snapshot marks the agent's portfolio to the given price.
func (s *Store) Snapshot(agentID string, price float64) portfolio.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(agentID)
	snap := portfolio.Snapshot{CashBalance: st.cash.InexactFloat64()}
	if st.position != nil {
		pos := *st.position
		snap.Position = &pos
		snap.PositionValue = pos.Quantity * price
	}
	return snap
}

// Buy converts cash into a position at the given price.
func (s *Store) Buy(agentID, token string, amount decimal.Decimal, price float64) error {
	if price <= 0 {
		return fmt.Errorf("paper: buy %s at non-positive price %.4f", token, price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(agentID)
	if st.position != nil {
		return fmt.Errorf("paper: agent %s already holds %s", agentID, st.position.Token)
	}
	if amount.GreaterThan(st.cash) {
		return fmt.Errorf("paper: buy amount %s exceeds cash %s", amount, st.cash)
	}

	st.cash = st.cash.Sub(amount)
	cost := amount.InexactFloat64()
	st.position = &portfolio.Position{
		Token:      token,
		EntryPrice: price,
		Quantity:   cost / price,
		EntryCost:  cost,
	}
	return nil
}

// Sell liquidates the full position at the given price and returns the
// realized PnL percentage.
func (s *Store) Sell(agentID string, price float64) (float64, error) {
	if price <= 0 {
		return 0, fmt.Errorf("paper: sell at non-positive price %.4f", price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(agentID)
	if st.position == nil {
		return 0, fmt.Errorf("paper: agent %s has no position to sell", agentID)
	}

	proceeds := decimal.NewFromFloat(st.position.Quantity * price)
	st.cash = st.cash.Add(proceeds)

	pnlPct := 0.0
	if st.position.EntryCost > 0 {
		pnlPct = (proceeds.InexactFloat64() - st.position.EntryCost) / st.position.EntryCost * 100
	}
	st.position = nil
	return pnlPct, nil
}
