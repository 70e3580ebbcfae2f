// Package session tracks per-agent trading activity for the lifetime of
// the process: trade counts, last-trade timestamps, and last actions. State
// is in-memory only and resets on restart; callers must not assume
// persistence.
package session

import (
	"fmt"
	"sync"
	"time"
)

// Session is one agent's mutable trading record. The embedded mutex
// serializes the orchestrator's check-and-update around a full evaluation,
// so concurrent calls for the same agent cannot double-count trades inside
// the cooldown window.
type Session struct {
	mu sync.Mutex

	TradeCount  int       `json:"trade_count"`
	LastTradeAt time.Time `json:"last_trade_at"`
	LastAction  string    `json:"last_action"`
}

// Lock acquires the per-agent evaluation lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-agent evaluation lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Record stamps an executed (non-HOLD) decision. Trade count only grows
// and the timestamp only advances.
func (s *Session) Record(action string, at time.Time) {
	s.TradeCount++
	if at.After(s.LastTradeAt) {
		s.LastTradeAt = at
	}
	s.LastAction = action
}

// Store is the process-wide session governor, keyed by agent id. Injected
// into the orchestrator so cap/cooldown logic stays independently testable.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	tradeCap int
	cooldown time.Duration
}

// NewStore builds a governor with the given session trade cap and cooldown
// window between trades.
func NewStore(tradeCap int, cooldown time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		tradeCap: tradeCap,
		cooldown: cooldown,
	}
}

// Get returns the agent's session, creating it on first reference.
func (st *Store) Get(agentID string) *Session {
	st.mu.RLock()
	s, ok := st.sessions[agentID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok = st.sessions[agentID]; ok {
		return s
	}
	s = &Session{}
	st.sessions[agentID] = s
	return s
}

// CanTrade checks cap and cooldown for a session the caller already holds
// locked. Returns a human-readable blocking reason on failure.
func (st *Store) CanTrade(s *Session, now time.Time) (string, bool) {
	if st.tradeCap > 0 && s.TradeCount >= st.tradeCap {
		return fmt.Sprintf("session trade cap reached (%d/%d)", s.TradeCount, st.tradeCap), false
	}
	if !s.LastTradeAt.IsZero() {
		if since := now.Sub(s.LastTradeAt); since < st.cooldown {
			return fmt.Sprintf("cooldown active: %.0fs since last trade, need %.0fs",
				since.Seconds(), st.cooldown.Seconds()), false
		}
	}
	return "", true
}

// Cooldown exposes the configured window for rationale text.
func (st *Store) Cooldown() time.Duration { return st.cooldown }

// TradeCap exposes the configured session cap.
func (st *Store) TradeCap() int { return st.tradeCap }
