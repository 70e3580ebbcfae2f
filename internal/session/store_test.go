package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetReturnsSameSession(t *testing.T) {
	st := NewStore(10, time.Minute)
	a := st.Get("agent-1")
	b := st.Get("agent-1")
	assert.Same(t, a, b)
	assert.NotSame(t, a, st.Get("agent-2"))
}

func TestCanTradeCooldown(t *testing.T) {
	st := NewStore(10, time.Minute)
	s := st.Get("agent-1")
	now := time.Now()

	reason, ok := st.CanTrade(s, now)
	require.True(t, ok, "fresh session trades freely: %s", reason)

	s.Record("BUY", now)

	reason, ok = st.CanTrade(s, now.Add(10*time.Second))
	assert.False(t, ok)
	assert.Contains(t, reason, "cooldown active")

	_, ok = st.CanTrade(s, now.Add(61*time.Second))
	assert.True(t, ok, "cooldown elapsed")
}

func TestCanTradeCapReached(t *testing.T) {
	st := NewStore(2, time.Second)
	s := st.Get("agent-1")
	now := time.Now()

	s.Record("BUY", now)
	s.Record("SELL", now.Add(2*time.Second))

	reason, ok := st.CanTrade(s, now.Add(time.Hour))
	assert.False(t, ok)
	assert.Contains(t, reason, "trade cap reached")
}

func TestRecordAdvancesState(t *testing.T) {
	st := NewStore(0, time.Minute) // zero cap disables the limit
	s := st.Get("agent-1")
	now := time.Now()

	s.Record("BUY", now)
	assert.Equal(t, 1, s.TradeCount)
	assert.Equal(t, "BUY", s.LastAction)
	assert.Equal(t, now, s.LastTradeAt)

	// A stale timestamp never moves the clock backwards.
	s.Record("SELL", now.Add(-time.Hour))
	assert.Equal(t, 2, s.TradeCount)
	assert.Equal(t, now, s.LastTradeAt)

	_, ok := st.CanTrade(s, now.Add(2*time.Minute))
	assert.True(t, ok, "uncapped store only enforces cooldown")
}
