package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessReserveSchedule(t *testing.T) {
	g := NewGuard(GuardConfig{})
	a := g.Assess(Snapshot{CashBalance: 100})

	assert.InDelta(t, 100.0, a.Equity, 1e-9)
	assert.InDelta(t, 100.0, a.CashPct, 1e-9)
	assert.InDelta(t, 0.0, a.ExposurePct, 1e-9)
	// 100 - 0.5 gas - 5 safety - 20 cash reserve
	assert.InDelta(t, 74.5, a.AvailableCash, 1e-9)
	assert.InDelta(t, 5.0, a.MaxTradeSize, 1e-9)
	assert.InDelta(t, 5.0, a.TradableAmount, 1e-9, "max trade binds before available cash")

	assert.False(t, a.IsOverexposed)
	assert.False(t, a.IsCashLow)
	assert.False(t, a.IsFundsTooLow)
}

func TestAssessAvailableCashFloorsAtZero(t *testing.T) {
	g := NewGuard(GuardConfig{})
	// Nearly all equity locked in the position: reserves exceed cash.
	a := g.Assess(Snapshot{CashBalance: 1, PositionValue: 99})

	assert.InDelta(t, 0.0, a.AvailableCash, 1e-9)
	assert.InDelta(t, 0.0, a.TradableAmount, 1e-9)
	assert.True(t, a.IsOverexposed, "99% exposure over the 60% limit")
	assert.True(t, a.IsCashLow)
}

func TestAssessFundsTooLow(t *testing.T) {
	g := NewGuard(GuardConfig{})
	a := g.Assess(Snapshot{CashBalance: 1})
	assert.True(t, a.IsFundsTooLow)
}

func TestAssessZeroEquity(t *testing.T) {
	g := NewGuard(GuardConfig{})
	a := g.Assess(Snapshot{})
	assert.Equal(t, 0.0, a.Equity)
	assert.Equal(t, 0.0, a.ExposurePct)
	assert.True(t, a.IsFundsTooLow)
}

func TestHasPosition(t *testing.T) {
	assert.False(t, Snapshot{}.HasPosition())
	assert.False(t, Snapshot{Position: &Position{}}.HasPosition())
	assert.True(t, Snapshot{Position: &Position{Quantity: 1}}.HasPosition())
}
