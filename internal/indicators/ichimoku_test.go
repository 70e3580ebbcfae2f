package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent-trading-engine/internal/market"
)

func TestComputeIchimokuRequiresHistory(t *testing.T) {
	_, ok := ComputeIchimoku(&market.Snapshot{Price: 100, PriceHistory: risingCloses(26)})
	assert.False(t, ok, "cross detection needs one sample past the Kijun window")

	_, ok = ComputeIchimoku(&market.Snapshot{Price: 100, PriceHistory: risingCloses(27)})
	assert.True(t, ok)
}

func TestComputeIchimokuCloudNeedsSenkouWindow(t *testing.T) {
	st, ok := ComputeIchimoku(&market.Snapshot{Price: 100, PriceHistory: risingCloses(30)})
	require.True(t, ok)
	assert.False(t, st.HasCloud)

	st, ok = ComputeIchimoku(&market.Snapshot{Price: 200, PriceHistory: risingCloses(60)})
	require.True(t, ok)
	assert.True(t, st.HasCloud)
	assert.GreaterOrEqual(t, st.CloudTop, st.CloudBottom)
}

func TestAnalyzeIchimokuTrendContinuation(t *testing.T) {
	closes := risingCloses(60)
	snap := &market.Snapshot{Price: closes[len(closes)-1] + 10, PriceHistory: closes}

	sig := AnalyzeIchimoku(snap)
	assert.Equal(t, Buy, sig.Direction)
	assert.Equal(t, 0.55, sig.Strength, "above cloud with Tenkan over Kijun, no fresh cross")
}

func TestAnalyzeIchimokuShortHistory(t *testing.T) {
	sig := AnalyzeIchimoku(&market.Snapshot{Price: 100, PriceHistory: risingCloses(10)})
	assert.Equal(t, Neutral, sig.Direction)
	assert.Equal(t, 0.1, sig.Strength)
}
