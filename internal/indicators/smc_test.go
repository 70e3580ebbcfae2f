package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent-trading-engine/internal/market"
)

func TestAnalyzeSMCBearishSweep(t *testing.T) {
	// The last candle runs the prior highs and closes back below them.
	klines := []market.Kline{
		{Open: 100, High: 105, Low: 95, Close: 100},
		{Open: 100, High: 110, Low: 98, Close: 105},
		{Open: 105, High: 108, Low: 100, Close: 104},
		{Open: 104, High: 109, Low: 101, Close: 106},
		{Open: 106, High: 115, Low: 104, Close: 107},
	}
	sig := AnalyzeSMC(&market.Snapshot{Price: 107, Klines: klines})
	assert.Equal(t, Sell, sig.Direction)
	assert.Equal(t, 0.85, sig.Strength)
	assert.Contains(t, sig.Detail, "sweep")
}

func TestAnalyzeSMCBullishSweep(t *testing.T) {
	klines := []market.Kline{
		{Open: 100, High: 105, Low: 95, Close: 100},
		{Open: 100, High: 104, Low: 94, Close: 98},
		{Open: 98, High: 102, Low: 93, Close: 96},
		{Open: 96, High: 100, Low: 92, Close: 95},
		{Open: 95, High: 99, Low: 85, Close: 97},
	}
	sig := AnalyzeSMC(&market.Snapshot{Price: 97, Klines: klines})
	assert.Equal(t, Buy, sig.Direction)
	assert.Equal(t, 0.85, sig.Strength)
}

func TestFindOrderBlocks(t *testing.T) {
	// A bearish candle at 100 followed by a rally past +2% of its open.
	klines := []market.Kline{
		{Open: 100, High: 101, Low: 97, Close: 98}, // support block candidate
		{Open: 98, High: 103, Low: 98, Close: 103}, // +3% from the block's open
		{Open: 103, High: 104, Low: 102, Close: 103},
	}
	blocks := FindOrderBlocks(klines)
	require.Len(t, blocks, 1)
	assert.Equal(t, SupportBlock, blocks[0].Kind)
	assert.Equal(t, 97.0, blocks[0].Low)
	assert.Equal(t, 101.0, blocks[0].High)
}

func TestFindFairValueGapsFilteredByPrice(t *testing.T) {
	klines := []market.Kline{
		{Open: 99, High: 100, Low: 98, Close: 100},
		{Open: 100, High: 104, Low: 100, Close: 104},
		{Open: 104, High: 107, Low: 105, Close: 106},
	}

	gaps := FindFairValueGaps(klines, 110)
	require.Len(t, gaps, 1, "price above the zone keeps the gap unfilled")
	assert.True(t, gaps[0].Bullish)
	assert.Equal(t, 100.0, gaps[0].Low)
	assert.Equal(t, 105.0, gaps[0].High)

	assert.Empty(t, FindFairValueGaps(klines, 102), "price back inside the zone fills it")
}

func TestApproximateSMCWithoutCandles(t *testing.T) {
	buy := AnalyzeSMC(&market.Snapshot{Price: 100, RangePercent: 20, Change1h: 0.5})
	assert.Equal(t, Buy, buy.Direction)
	assert.Equal(t, 0.6, buy.Strength)

	sell := AnalyzeSMC(&market.Snapshot{Price: 100, RangePercent: 80, Change1h: -0.5})
	assert.Equal(t, Sell, sell.Direction)

	flat := AnalyzeSMC(&market.Snapshot{Price: 100, RangePercent: 50})
	assert.Equal(t, Neutral, flat.Direction)
}
