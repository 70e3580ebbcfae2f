// Package market defines the immutable market inputs consumed by the
// decision engine: per-evaluation snapshots, candle history, and the
// deterministic history synthesis used when no real history is available.
package market

// Kline is a single OHLCV candle.
type Kline struct {
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Volume      float64 `json:"volume"`
	QuoteVolume float64 `json:"quote_volume,omitempty"`
	CloseTime   int64   `json:"close_time"`
}

// IsBullish reports whether the candle closed above its open.
func (k Kline) IsBullish() bool { return k.Close > k.Open }

// IsBearish reports whether the candle closed below its open.
func (k Kline) IsBearish() bool { return k.Close < k.Open }

// MACDSnapshot is a precomputed MACD reading supplied by the data provider.
type MACDSnapshot struct {
	Value     float64 `json:"value"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
	Slope     float64 `json:"slope"`
}

// Snapshot is the immutable market input for one evaluation. It is
// constructed fresh by the market-data collaborator per call and never
// mutated by the engine.
type Snapshot struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`

	Change1h  float64 `json:"change_1h"`
	Change24h float64 `json:"change_24h"`
	Change7d  float64 `json:"change_7d"`

	High24h   float64 `json:"high_24h"`
	Low24h    float64 `json:"low_24h"`
	Volume24h float64 `json:"volume_24h"`

	// RangePercent is the price position within the 24h range, 0-100.
	RangePercent float64 `json:"range_percent"`
	// Volatility is the 24h range as a percentage of price.
	Volatility float64 `json:"volatility"`
	// VolumeRatio is 24h volume over a market-cap proxy.
	VolumeRatio float64 `json:"volume_ratio"`

	// PriceHistory holds close prices ordered oldest to newest. Optional.
	PriceHistory []float64 `json:"price_history,omitempty"`
	// Klines holds OHLC candle history ordered oldest to newest. Optional.
	Klines []Kline `json:"klines,omitempty"`

	RSI        *float64      `json:"rsi,omitempty"`
	RSIHistory []float64     `json:"rsi_history,omitempty"`
	MACD       *MACDSnapshot `json:"macd,omitempty"`

	VolumeHistory []float64 `json:"volume_history,omitempty"`
}

// Closes returns the close-price history, deriving it from candles when no
// explicit history was supplied.
func (s *Snapshot) Closes() []float64 {
	if len(s.PriceHistory) > 0 {
		return s.PriceHistory
	}
	if len(s.Klines) == 0 {
		return nil
	}
	closes := make([]float64, len(s.Klines))
	for i, k := range s.Klines {
		closes[i] = k.Close
	}
	return closes
}

// LatestRSI returns the most recent RSI reading, preferring history over
// the precomputed spot value.
func (s *Snapshot) LatestRSI() (float64, bool) {
	if n := len(s.RSIHistory); n > 0 {
		return s.RSIHistory[n-1], true
	}
	if s.RSI != nil {
		return *s.RSI, true
	}
	return 0, false
}
