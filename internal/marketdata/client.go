package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"agent-trading-engine/internal/circuit"
	"agent-trading-engine/internal/indicators"
	"agent-trading-engine/internal/market"
)

const (
	defaultBaseURL  = "https://api.binance.com"
	defaultTimeout  = 10 * time.Second
	klineInterval   = "1h"
	klineLimit      = 100
	volumeWindow    = 24
	rsiPeriod       = 14
	rsiHistoryDepth = 10
)

// ClientConfig configures the HTTP snapshot provider.
type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Client fetches 24h ticker and candle data over HTTP and derives the
// snapshot fields the indicator modules expect.
type Client struct {
	http    *resty.Client
	breaker *circuit.Breaker
	log     zerolog.Logger
}

// NewClient builds a snapshot provider over the given breaker.
func NewClient(cfg ClientConfig, breaker *circuit.Breaker, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(cfg.BaseURL)
	httpClient.SetTimeout(cfg.Timeout)

	return &Client{
		http:    httpClient,
		breaker: breaker,
		log:     log.With().Str("component", "marketdata").Logger(),
	}
}

// tickerResponse mirrors the exchange 24hr ticker payload; numeric fields
// arrive as strings.
type tickerResponse struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	HighPrice          string `json:"highPrice"`
	LowPrice           string `json:"lowPrice"`
	QuoteVolume        string `json:"quoteVolume"`
}

// Snapshot fetches ticker and candles for the symbol and assembles the
// engine's market snapshot. Fails fast while the breaker is open.
func (c *Client) Snapshot(ctx context.Context, symbol string) (*market.Snapshot, error) {
	if ok, reason := c.breaker.Allow(); !ok {
		return nil, fmt.Errorf("marketdata: %s", reason)
	}

	ticker, err := c.fetchTicker(ctx, symbol)
	if err != nil {
		c.breaker.RecordFailure(err)
		return nil, err
	}

	klines, err := c.fetchKlines(ctx, symbol)
	if err != nil {
		c.breaker.RecordFailure(err)
		return nil, err
	}
	c.breaker.RecordSuccess()

	snap := c.assemble(symbol, ticker, klines)
	c.log.Debug().
		Str("symbol", symbol).
		Float64("price", snap.Price).
		Int("klines", len(snap.Klines)).
		Msg("snapshot assembled")
	return snap, nil
}

func (c *Client) fetchTicker(ctx context.Context, symbol string) (*tickerResponse, error) {
	var ticker tickerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		SetResult(&ticker).
		Get("/api/v3/ticker/24hr")
	if err != nil {
		return nil, fmt.Errorf("fetch ticker for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("ticker API error %d: %s", resp.StatusCode(), resp.String())
	}
	return &ticker, nil
}

func (c *Client) fetchKlines(ctx context.Context, symbol string) ([]market.Kline, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":   symbol,
			"interval": klineInterval,
			"limit":    strconv.Itoa(klineLimit),
		}).
		Get("/api/v3/klines")
	if err != nil {
		return nil, fmt.Errorf("fetch klines for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("klines API error %d: %s", resp.StatusCode(), resp.String())
	}

	// Kline rows are heterogeneous arrays: timestamps as numbers, prices
	// as strings.
	var raw [][]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("parse klines for %s: %w", symbol, err)
	}

	klines := make([]market.Kline, 0, len(raw))
	for _, row := range raw {
		if len(row) < 8 {
			continue
		}
		k := market.Kline{
			Open:        parseQuoted(row[1]),
			High:        parseQuoted(row[2]),
			Low:         parseQuoted(row[3]),
			Close:       parseQuoted(row[4]),
			Volume:      parseQuoted(row[5]),
			QuoteVolume: parseQuoted(row[7]),
		}
		var closeTime int64
		if json.Unmarshal(row[6], &closeTime) == nil {
			k.CloseTime = closeTime
		}
		klines = append(klines, k)
	}
	return klines, nil
}

// assemble derives the snapshot fields the indicator modules read from raw
// ticker and candle data.
func (c *Client) assemble(symbol string, t *tickerResponse, klines []market.Kline) *market.Snapshot {
	snap := &market.Snapshot{
		Symbol:    symbol,
		Price:     parseFloat(t.LastPrice),
		Change24h: parseFloat(t.PriceChangePercent),
		High24h:   parseFloat(t.HighPrice),
		Low24h:    parseFloat(t.LowPrice),
		Volume24h: parseFloat(t.QuoteVolume),
		Klines:    klines,
	}

	if spread := snap.High24h - snap.Low24h; spread > 0 {
		snap.RangePercent = (snap.Price - snap.Low24h) / spread * 100
		if snap.Price > 0 {
			snap.Volatility = spread / snap.Price * 100
		}
	}

	closes := snap.Closes()
	if n := len(closes); n >= 2 {
		snap.Change1h = pctChange(closes[n-2], closes[n-1])
	}
	// Hourly candles: 7d is out of range at 100 bars, so approximate with
	// the oldest close available.
	if n := len(closes); n >= 2 {
		snap.Change7d = pctChange(closes[0], closes[n-1])
	}

	if rsis := indicators.ComputeRSISeries(closes, rsiPeriod); len(rsis) > 0 {
		start := len(rsis) - rsiHistoryDepth
		if start < 0 {
			start = 0
		}
		snap.RSIHistory = rsis[start:]
		last := rsis[len(rsis)-1]
		snap.RSI = &last
	}
	snap.MACD = indicators.ComputeMACD(closes)

	// History entries must share units with the ticker's 24h quote volume,
	// so each entry is a trailing 24-bar sum of per-candle quote turnover.
	quote := make([]float64, 0, len(klines))
	for _, k := range klines {
		quote = append(quote, k.QuoteVolume)
	}
	snap.VolumeHistory = rollingSums(quote, volumeWindow)
	if n := len(quote); n > 1 {
		sum := 0.0
		for _, v := range quote[:n-1] {
			sum += v
		}
		if avg := sum / float64(n-1); avg > 0 {
			snap.VolumeRatio = quote[n-1] / avg
		}
	}

	return snap
}

// rollingSums reduces a per-bar series to trailing window sums, one per bar
// once a full window exists.
func rollingSums(series []float64, window int) []float64 {
	if len(series) < window {
		return nil
	}
	sums := make([]float64, 0, len(series)-window+1)
	sum := 0.0
	for i, v := range series {
		sum += v
		if i >= window {
			sum -= series[i-window]
		}
		if i >= window-1 {
			sums = append(sums, sum)
		}
	}
	return sums
}

func parseQuoted(raw json.RawMessage) float64 {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	return parseFloat(s)
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func pctChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
