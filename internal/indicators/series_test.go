package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 4.0, SMA(values, 3))
	assert.Equal(t, 3.0, SMA(values, 5))
	assert.Equal(t, 0.0, SMA(values, 6), "short series returns zero")
	assert.Equal(t, 0.0, SMA(values, 0))
}

func TestEMASeriesLengthAndSeed(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i + 1)
	}

	series := EMASeries(values, 9)
	require.Len(t, series, 22, "len(values)-period+1 points")
	assert.Equal(t, 5.0, series[0], "seed is the SMA of the first period values")

	assert.Nil(t, EMASeries(values[:5], 9), "short series yields no EMA")
}

func TestEMAConstantSeries(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 42.0
	}
	ema, ok := EMA(values, 21)
	require.True(t, ok)
	assert.InDelta(t, 42.0, ema, 1e-9)
}

func TestEMATracksRisingSeries(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 100 + float64(i)
	}
	fast, ok := EMA(values, 9)
	require.True(t, ok)
	slow, ok := EMA(values, 21)
	require.True(t, ok)
	assert.Greater(t, fast, slow, "shorter period hugs a rising series tighter")
	assert.Less(t, fast, values[len(values)-1], "EMA lags price")
}

func TestStdDev(t *testing.T) {
	flat := []float64{5, 5, 5, 5}
	assert.Equal(t, 0.0, StdDev(flat, 4))

	// Population stddev of {2,4,4,4,5,5,7,9} is 2.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, StdDev(values, 8), 1e-9)
}

func TestMidpoint(t *testing.T) {
	highs := []float64{10, 12, 11, 14}
	lows := []float64{8, 9, 7, 10}

	m, ok := midpoint(highs, lows, 4)
	require.True(t, ok)
	assert.Equal(t, (14.0+7.0)/2, m)

	_, ok = midpoint(highs, lows, 5)
	assert.False(t, ok)
}
