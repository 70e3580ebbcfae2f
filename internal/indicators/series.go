package indicators

import "math"

// SMA returns the simple average of the last period values. Returns 0 when
// fewer than period values exist.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// EMASeries computes the exponential moving average over values. The seed is
// the simple average of the first period values, then
// ema = value*k + prev*(1-k) with k = 2/(period+1). The result has exactly
// len(values)-period+1 points; nil when the series is too short.
func EMASeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)

	k := 2.0 / float64(period+1)
	out := make([]float64, 0, len(values)-period+1)
	out = append(out, seed)

	ema := seed
	for _, v := range values[period:] {
		ema = v*k + ema*(1-k)
		out = append(out, ema)
	}
	return out
}

// EMA returns the latest EMA value, and false when the series is too short.
func EMA(values []float64, period int) (float64, bool) {
	series := EMASeries(values, period)
	if len(series) == 0 {
		return 0, false
	}
	return series[len(series)-1], true
}

// StdDev returns the population standard deviation of the last period
// values around their simple mean.
func StdDev(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	mean := SMA(values, period)
	variance := 0.0
	for _, v := range values[len(values)-period:] {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(period))
}

// midpoint returns (max(high)+min(low))/2 over the last period entries of
// the paired high/low series.
func midpoint(highs, lows []float64, period int) (float64, bool) {
	if period <= 0 || len(highs) < period || len(lows) < period {
		return 0, false
	}
	hi := highs[len(highs)-period]
	lo := lows[len(lows)-period]
	for _, h := range highs[len(highs)-period:] {
		if h > hi {
			hi = h
		}
	}
	for _, l := range lows[len(lows)-period:] {
		if l < lo {
			lo = l
		}
	}
	return (hi + lo) / 2, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
