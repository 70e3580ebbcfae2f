package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent-trading-engine/internal/agent"
	"agent-trading-engine/internal/confluence"
	"agent-trading-engine/internal/logging"
	"agent-trading-engine/internal/market"
	"agent-trading-engine/internal/portfolio"
	"agent-trading-engine/internal/session"
)

func newTestEngine(tradeCap int, cooldown time.Duration) *Engine {
	return New(logging.Nop(), session.NewStore(tradeCap, cooldown), portfolio.NewGuard(portfolio.GuardConfig{}))
}

// acceleratingUptrend builds a snapshot with every major signal leaning
// bullish: accelerating closes, oversold RSI, a fresh MACD cross, and
// strong multi-horizon momentum.
func acceleratingUptrend() *market.Snapshot {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + 0.3*float64(i)*float64(i)
	}
	rsi := 25.0
	return &market.Snapshot{
		Symbol:       "SOLUSDT",
		Price:        closes[len(closes)-1],
		Change1h:     1,
		Change24h:    5,
		Change7d:     12,
		RangePercent: 80,
		Volatility:   4,
		PriceHistory: closes,
		RSI:          &rsi,
		MACD:         &market.MACDSnapshot{Value: 0.5, Signal: 0.49, Histogram: 0.01, Slope: 0.005},
	}
}

func TestEvaluateBuyPath(t *testing.T) {
	eng := newTestEngine(10, time.Minute)

	d, err := eng.Evaluate(context.Background(), Input{
		AgentID:   "agent-1",
		Traits:    agent.DefaultTraits(),
		Market:    acceleratingUptrend(),
		Portfolio: portfolio.Snapshot{CashBalance: 1000},
	})
	require.NoError(t, err)

	assert.Equal(t, confluence.ActionBuy, d.Action)
	assert.GreaterOrEqual(t, d.Confidence, 60.0)
	assert.LessOrEqual(t, d.Confidence, 95.0)

	// Reserve schedule caps the raw risk-based size at 5% of equity.
	assert.InDelta(t, 5.0, d.SuggestedPercent, 1e-6)
	assert.InDelta(t, 50.0, d.Amount.InexactFloat64(), 1e-6)

	snapPrice := acceleratingUptrend().Price
	assert.Greater(t, d.StopLoss, 0.0)
	assert.Less(t, d.StopLoss, snapPrice)
	assert.Greater(t, d.TakeProfit, snapPrice)

	assert.NotEmpty(t, d.Reasoning)
	assert.NotEmpty(t, d.TechnicalSummary)
	assert.NotEmpty(t, d.RiskSummary)
	assert.NotEmpty(t, d.ID)
	assert.Len(t, d.Signals, 9, "eight directional modules plus the volatility profile")
}

func TestEvaluateNilMarket(t *testing.T) {
	eng := newTestEngine(10, time.Minute)
	_, err := eng.Evaluate(context.Background(), Input{AgentID: "agent-1"})
	assert.ErrorIs(t, err, ErrNoMarketData)
}

func TestEvaluateInsufficientFunds(t *testing.T) {
	eng := newTestEngine(10, time.Minute)

	d, err := eng.Evaluate(context.Background(), Input{
		AgentID:   "agent-1",
		Traits:    agent.DefaultTraits(),
		Market:    acceleratingUptrend(),
		Portfolio: portfolio.Snapshot{CashBalance: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, confluence.ActionHold, d.Action)
	assert.Contains(t, d.Reasoning, "insufficient funds")
}

func TestEvaluateCooldownBlocksSecondTrade(t *testing.T) {
	eng := newTestEngine(10, time.Minute)
	in := Input{
		AgentID:   "agent-1",
		Traits:    agent.DefaultTraits(),
		Market:    acceleratingUptrend(),
		Portfolio: portfolio.Snapshot{CashBalance: 1000},
	}

	first, err := eng.Evaluate(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, confluence.ActionBuy, first.Action)

	second, err := eng.Evaluate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, confluence.ActionHold, second.Action)
	assert.Contains(t, second.Reasoning, "cooldown active")
}

func TestEvaluateSessionCap(t *testing.T) {
	eng := newTestEngine(1, time.Nanosecond)
	in := Input{
		AgentID:   "agent-1",
		Traits:    agent.DefaultTraits(),
		Market:    acceleratingUptrend(),
		Portfolio: portfolio.Snapshot{CashBalance: 1000},
	}

	first, err := eng.Evaluate(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, confluence.ActionBuy, first.Action)

	second, err := eng.Evaluate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, confluence.ActionHold, second.Action)
	assert.Contains(t, second.Reasoning, "trade cap reached")
}

func TestEvaluateStopLossOutranksEverything(t *testing.T) {
	eng := newTestEngine(10, time.Minute)

	// Entry at 100 with a 6% stop (1.5x the 4% ATR): price 90 is well
	// through it.
	d, err := eng.Evaluate(context.Background(), Input{
		AgentID: "agent-1",
		Traits:  agent.DefaultTraits(),
		Market:  &market.Snapshot{Symbol: "SOLUSDT", Price: 90, Volatility: 4, Change24h: -2},
		Portfolio: portfolio.Snapshot{
			CashBalance:   100,
			PositionValue: 90,
			Position:      &portfolio.Position{Token: "SOLUSDT", EntryPrice: 100, Quantity: 1, EntryCost: 100},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, confluence.ActionSell, d.Action)
	assert.Equal(t, 90.0, d.Confidence)
	assert.Contains(t, d.Reasoning, "stop loss")
}

func TestEvaluateTakeProfit(t *testing.T) {
	eng := newTestEngine(10, time.Minute)

	// 12% target off a 100 entry; price 115 is beyond it.
	d, err := eng.Evaluate(context.Background(), Input{
		AgentID: "agent-1",
		Traits:  agent.DefaultTraits(),
		Market:  &market.Snapshot{Symbol: "SOLUSDT", Price: 115, Volatility: 4, Change24h: 2},
		Portfolio: portfolio.Snapshot{
			CashBalance:   100,
			PositionValue: 115,
			Position:      &portfolio.Position{Token: "SOLUSDT", EntryPrice: 100, Quantity: 1, EntryCost: 100},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, confluence.ActionSell, d.Action)
	assert.Equal(t, 85.0, d.Confidence)
	assert.Contains(t, d.Reasoning, "take profit")
}

func TestEvaluateBuyBlockedWhilePositionOpen(t *testing.T) {
	eng := newTestEngine(10, time.Minute)

	snap := acceleratingUptrend()
	d, err := eng.Evaluate(context.Background(), Input{
		AgentID: "agent-1",
		Traits:  agent.DefaultTraits(),
		Market:  snap,
		Portfolio: portfolio.Snapshot{
			CashBalance:   500,
			PositionValue: 500,
			// Entry at the current price: neither stop nor target in play.
			Position: &portfolio.Position{Token: "SOLUSDT", EntryPrice: snap.Price, Quantity: 500 / snap.Price, EntryCost: 500},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, confluence.ActionHold, d.Action)
	assert.Contains(t, d.Reasoning, "position already open")
}

func TestEvaluateSellConfluenceWithoutPositionHolds(t *testing.T) {
	eng := newTestEngine(10, time.Minute)

	// Mirror of the buy scenario: decelerating downtrend, overbought RSI,
	// bearish MACD.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 400 - 0.3*float64(i)*float64(i)
	}
	rsi := 78.0
	snap := &market.Snapshot{
		Symbol:       "SOLUSDT",
		Price:        closes[len(closes)-1],
		Change1h:     -1,
		Change24h:    -5,
		Change7d:     -12,
		RangePercent: 20,
		Volatility:   4,
		PriceHistory: closes,
		RSI:          &rsi,
		MACD:         &market.MACDSnapshot{Value: -0.5, Signal: -0.49, Histogram: -0.01, Slope: -0.005},
	}

	d, err := eng.Evaluate(context.Background(), Input{
		AgentID:   "agent-1",
		Traits:    agent.DefaultTraits(),
		Market:    snap,
		Portfolio: portfolio.Snapshot{CashBalance: 1000},
	})
	require.NoError(t, err)
	assert.Equal(t, confluence.ActionHold, d.Action, "nothing to sell")
	assert.Contains(t, d.Reasoning, "no open position")
}
