package indicators

import (
	"fmt"

	"agent-trading-engine/internal/market"
)

// AnalyzeVolume rates conviction behind the current move by comparing 24h
// volume against its recent average. Elevated volume confirms the 24h price
// direction; drying volume means no conviction either way.
func AnalyzeVolume(snap *market.Snapshot) Signal {
	ratio := 1.0
	if len(snap.VolumeHistory) > 0 {
		avg := SMA(snap.VolumeHistory, len(snap.VolumeHistory))
		if avg > 0 {
			ratio = snap.Volume24h / avg
		}
	}

	switch {
	case ratio >= 1.5 && snap.Change24h > 0:
		strength := clamp01(0.4 + 0.5*(ratio-1))
		return Signal{Name: NameVolume, Direction: Buy, Strength: strength, Weight: WeightVolume,
			Detail: fmt.Sprintf("volume surge %.1fx average confirming +%.1f%% move", ratio, snap.Change24h)}
	case ratio >= 1.5 && snap.Change24h < 0:
		strength := clamp01(0.4 + 0.5*(ratio-1))
		return Signal{Name: NameVolume, Direction: Sell, Strength: strength, Weight: WeightVolume,
			Detail: fmt.Sprintf("volume surge %.1fx average confirming %.1f%% move", ratio, snap.Change24h)}
	case ratio < 0.7:
		return neutral(NameVolume, WeightVolume, 0.1,
			fmt.Sprintf("volume %.1fx average, no conviction", ratio))
	default:
		return neutral(NameVolume, WeightVolume, 0.2,
			fmt.Sprintf("volume %.1fx average, unremarkable", ratio))
	}
}
