// Package marketdata fetches and shapes the market snapshots the engine
// consumes. The HTTP client is wrapped in a circuit breaker so a dead
// upstream degrades to skipped cycles instead of request storms.
package marketdata

import (
	"context"

	"agent-trading-engine/internal/market"
)

// Provider supplies a fresh market snapshot per evaluation.
type Provider interface {
	Snapshot(ctx context.Context, symbol string) (*market.Snapshot, error)
}
