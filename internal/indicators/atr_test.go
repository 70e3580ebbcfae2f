package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"agent-trading-engine/internal/market"
)

func TestTrueRange(t *testing.T) {
	k := market.Kline{High: 110, Low: 100}
	assert.Equal(t, 10.0, TrueRange(k, 105), "plain range when prior close sits inside")
	assert.Equal(t, 15.0, TrueRange(k, 95), "gap up widens the range to the prior close")
	assert.Equal(t, 15.0, TrueRange(k, 115), "gap down mirrors")
}

func TestComputeATRInsufficientHistory(t *testing.T) {
	klines := make([]market.Kline, 14)
	assert.Equal(t, 0.0, ComputeATR(klines, 14), "needs period+1 candles")
}

func TestComputeATRProfileFallback(t *testing.T) {
	// No candles: ATR approximated from 24h volatility.
	p := ComputeATRProfile(&market.Snapshot{Price: 100, Volatility: 4})
	assert.InDelta(t, 4.0, p.ATR, 1e-9)
	assert.InDelta(t, 4.0, p.ATRPercent, 1e-9)
	assert.InDelta(t, 6.0, p.StopPercent, 1e-9)
	assert.InDelta(t, 12.0, p.TargetPercent, 1e-9)
	assert.Equal(t, TierHigh, p.Tier)
}

func TestVolatilityTiers(t *testing.T) {
	tiers := []struct {
		volatility float64
		tier       VolatilityTier
	}{
		{1.0, TierLow},
		{2.0, TierMedium},
		{5.0, TierHigh},
		{10.0, TierExtreme},
	}
	for _, tt := range tiers {
		p := ComputeATRProfile(&market.Snapshot{Price: 100, Volatility: tt.volatility})
		assert.Equal(t, tt.tier, p.Tier, "volatility %.1f", tt.volatility)
	}
}

func TestATRProfileSignalNeverVotes(t *testing.T) {
	for _, vol := range []float64{1, 3, 6, 12} {
		p := ComputeATRProfile(&market.Snapshot{Price: 100, Volatility: vol})
		sig := p.Signal()
		assert.Equal(t, Neutral, sig.Direction)
		assert.Equal(t, NameATRRisk, sig.Name)
	}

	extreme := ComputeATRProfile(&market.Snapshot{Price: 100, Volatility: 12})
	assert.Equal(t, 0.8, extreme.Signal().Strength)
}
