// Package circuit guards the market-data fetch path: repeated upstream
// failures open the breaker so the scheduler skips cycles instead of
// hammering a dead endpoint.
package circuit

import (
	"fmt"
	"sync"
	"time"
)

// BreakerState represents the circuit breaker state
type BreakerState string

const (
	StateClosed   BreakerState = "closed"    // Normal operation
	StateOpen     BreakerState = "open"      // Requests suppressed
	StateHalfOpen BreakerState = "half_open" // Probing recovery
)

// BreakerConfig holds circuit breaker configuration
type BreakerConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	MaxFailures    int           `mapstructure:"max_failures"` // Consecutive failures before trip
	Cooldown       time.Duration `mapstructure:"cooldown"`     // Wait before half-open probe
	HalfOpenProbes int           `mapstructure:"half_open_probes"`
}

// DefaultBreakerConfig returns safe defaults
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:        true,
		MaxFailures:    5,
		Cooldown:       30 * time.Second,
		HalfOpenProbes: 1,
	}
}

// Breaker implements the circuit breaker pattern for upstream calls
type Breaker struct {
	mu sync.Mutex

	config       BreakerConfig
	state        BreakerState
	failures     int
	probesInUse  int
	lastTripTime time.Time
	tripReason   string
	onTrip       func(reason string)
}

// NewBreaker creates a breaker. Unset numeric knobs take the defaults; the
// Enabled flag is always the caller's.
func NewBreaker(config BreakerConfig) *Breaker {
	defaults := DefaultBreakerConfig()
	if config.MaxFailures <= 0 {
		config.MaxFailures = defaults.MaxFailures
	}
	if config.Cooldown <= 0 {
		config.Cooldown = defaults.Cooldown
	}
	if config.HalfOpenProbes <= 0 {
		config.HalfOpenProbes = defaults.HalfOpenProbes
	}
	return &Breaker{config: config, state: StateClosed}
}

// OnTrip sets callback for when the breaker trips
func (b *Breaker) OnTrip(handler func(reason string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onTrip = handler
}

// Allow checks whether a request may proceed, with a reason when blocked.
func (b *Breaker) Allow() (bool, string) {
	if !b.config.Enabled {
		return true, ""
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		elapsed := time.Since(b.lastTripTime)
		if elapsed < b.config.Cooldown {
			remaining := b.config.Cooldown - elapsed
			return false, fmt.Sprintf("circuit open, cooldown remaining: %v (reason: %s)",
				remaining.Round(time.Second), b.tripReason)
		}
		// Cooldown passed, allow a limited probe.
		b.state = StateHalfOpen
		b.probesInUse = 0
		fallthrough
	case StateHalfOpen:
		if b.probesInUse >= b.config.HalfOpenProbes {
			return false, "circuit half-open, probe in flight"
		}
		b.probesInUse++
		return true, ""
	default:
		return true, ""
	}
}

// RecordSuccess closes the breaker after a successful call.
func (b *Breaker) RecordSuccess() {
	if !b.config.Enabled {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state != StateClosed {
		b.state = StateClosed
		b.tripReason = ""
	}
}

// RecordFailure counts a failed call and trips on the threshold. A failed
// half-open probe reopens immediately.
func (b *Breaker) RecordFailure(err error) {
	if !b.config.Enabled {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	if b.state == StateHalfOpen {
		b.trip(fmt.Sprintf("half-open probe failed: %v", err))
		return
	}
	if b.failures >= b.config.MaxFailures {
		b.trip(fmt.Sprintf("%d consecutive failures, last: %v", b.failures, err))
	}
}

// trip opens the breaker; callers hold the lock.
func (b *Breaker) trip(reason string) {
	b.state = StateOpen
	b.lastTripTime = time.Now()
	b.tripReason = reason

	if b.onTrip != nil {
		go b.onTrip(reason)
	}
}

// ForceReset manually closes the breaker
func (b *Breaker) ForceReset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.tripReason = ""
}

// GetState returns current breaker state
func (b *Breaker) GetState() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// GetStats returns current statistics
func (b *Breaker) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"state":          string(b.state),
		"failures":       b.failures,
		"trip_reason":    b.tripReason,
		"last_trip_time": b.lastTripTime,
	}
}
