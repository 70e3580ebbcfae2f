package indicators

import "agent-trading-engine/internal/market"

// AnalyzeAll runs every directional indicator module over the snapshot in a
// fixed order. The ATR profile is computed separately by the caller since
// its output also feeds position sizing.
func AnalyzeAll(snap *market.Snapshot) []Signal {
	return []Signal{
		AnalyzeEMAStack(snap),
		AnalyzeVolume(snap),
		AnalyzeRSI(snap),
		AnalyzeMACD(snap),
		AnalyzeBollinger(snap),
		AnalyzeSMC(snap),
		AnalyzeIchimoku(snap),
		AnalyzeStructure(snap),
	}
}
