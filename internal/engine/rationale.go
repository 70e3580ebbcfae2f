package engine

import (
	"fmt"
	"strings"

	"agent-trading-engine/internal/confluence"
	"agent-trading-engine/internal/indicators"
	"agent-trading-engine/internal/portfolio"
	"agent-trading-engine/internal/regime"
)

// technicalSummary renders the signal roster as one line per module, votes
// first, neutrals collapsed at the end.
func technicalSummary(signals []indicators.Signal, reg regime.Regime) string {
	var b strings.Builder
	fmt.Fprintf(&b, "regime=%s", reg)

	var neutrals []string
	for _, s := range signals {
		if s.Direction == indicators.Neutral {
			neutrals = append(neutrals, s.Name)
			continue
		}
		fmt.Fprintf(&b, " | %s %s %.2f (%s)", s.Name, s.Direction, s.Strength, s.Detail)
	}
	if len(neutrals) > 0 {
		fmt.Fprintf(&b, " | neutral: %s", strings.Join(neutrals, ","))
	}
	return b.String()
}

// riskSummary renders the ATR profile and guard assessment.
func riskSummary(profile indicators.ATRProfile, assess portfolio.Assessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s volatility, ATR %.2f%%, stop %.2f%%, target %.2f%%",
		profile.Tier, profile.ATRPercent, profile.StopPercent, profile.TargetPercent)
	fmt.Fprintf(&b, " | equity %.2f, exposure %.1f%%, tradable %.2f",
		assess.Equity, assess.ExposurePct, assess.TradableAmount)
	if assess.IsOverexposed {
		b.WriteString(" | OVEREXPOSED")
	}
	if assess.IsCashLow {
		b.WriteString(" | CASH LOW")
	}
	return b.String()
}

// buyReasoning names the supporting modules behind a buy verdict.
func buyReasoning(res confluence.Result, sizePct float64) string {
	names := make([]string, 0, len(res.Supporting))
	for _, s := range res.Supporting {
		names = append(names, s.Name)
	}
	prefix := ""
	if res.Contrarian {
		prefix = "contrarian read: "
	}
	return fmt.Sprintf("%s%s; supporting: %s; sizing %.2f%% of equity",
		prefix, res.Reason, strings.Join(names, ", "), sizePct)
}

func sellReasoning(res confluence.Result) string {
	names := make([]string, 0, len(res.Supporting))
	for _, s := range res.Supporting {
		names = append(names, s.Name)
	}
	prefix := ""
	if res.Contrarian {
		prefix = "contrarian read: "
	}
	return fmt.Sprintf("%s%s; supporting: %s", prefix, res.Reason, strings.Join(names, ", "))
}
