package market

// syntheticPoints is the length of a synthesized close history. Thirty
// points is enough for the 9/21 EMA lines and the 20-period Bollinger
// window while staying below the 55-period and Ichimoku requirements,
// which a synthesized series cannot honestly support.
const syntheticPoints = 30

// segment point counts: 7d->24h, 24h->1h, 1h->now.
const (
	segWeek = 14
	segDay  = 10
	segHour = 6
)

// SynthesizeHistory builds a deterministic close-price history from the
// snapshot's 1h/24h/7d percent changes when no real history exists. The
// series is a piecewise-linear walk through the implied prices at t-7d,
// t-24h, and t-1h, ending at the current price. No jitter is applied so
// repeated calls over identical snapshots are reproducible.
func SynthesizeHistory(s *Snapshot) []float64 {
	if s == nil || s.Price <= 0 {
		return nil
	}

	anchor := func(changePct float64) float64 {
		denom := 1 + changePct/100
		if denom <= 0 {
			return s.Price
		}
		return s.Price / denom
	}

	p7d := anchor(s.Change7d)
	p24h := anchor(s.Change24h)
	p1h := anchor(s.Change1h)

	history := make([]float64, 0, syntheticPoints)
	appendSegment(&history, p7d, p24h, segWeek)
	appendSegment(&history, p24h, p1h, segDay)
	appendSegment(&history, p1h, s.Price, segHour)
	return history
}

// EnsureHistory returns a snapshot guaranteed to carry a close history,
// synthesizing one when both PriceHistory and Klines are absent. The input
// snapshot is never mutated.
func EnsureHistory(s *Snapshot) *Snapshot {
	if s == nil {
		return nil
	}
	if len(s.PriceHistory) > 0 || len(s.Klines) > 0 {
		return s
	}
	clone := *s
	clone.PriceHistory = SynthesizeHistory(s)
	return &clone
}

func appendSegment(history *[]float64, from, to float64, points int) {
	for i := 1; i <= points; i++ {
		t := float64(i) / float64(points)
		*history = append(*history, from+(to-from)*t)
	}
}
