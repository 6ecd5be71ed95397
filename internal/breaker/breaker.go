// Package breaker decides, per call, whether a remote sync attempt should be
// made at all. It is a two-state circuit breaker (closed / open-with-timer):
// after the cooldown elapses a single optimistic retry is permitted, and one
// failed probe re-opens the breaker for another full cooldown.
package breaker

import (
	"sync"
	"time"
)

// DefaultCooldown is how long remote attempts stay suppressed after a failure.
const DefaultCooldown = 60 * time.Second

// Policy tracks remote availability for the lifetime of the process. It is
// created once at startup and injected into the engine rather than accessed
// as ambient state.
type Policy struct {
	mu          sync.Mutex
	configured  bool
	failed      bool
	lastFailure time.Time
	cooldown    time.Duration
	now         func() time.Time
}

// New returns a Policy. configured reflects whether a backend URL is known;
// it is immutable for the process lifetime.
func New(configured bool) *Policy {
	return &Policy{
		configured: configured,
		cooldown:   DefaultCooldown,
		now:        time.Now,
	}
}

// NewWithClock is New with an injectable clock and cooldown for tests.
func NewWithClock(configured bool, cooldown time.Duration, now func() time.Time) *Policy {
	p := New(configured)
	if cooldown > 0 {
		p.cooldown = cooldown
	}
	if now != nil {
		p.now = now
	}
	return p
}

// Configured reports whether a backend endpoint is known at all.
func (p *Policy) Configured() bool {
	return p.configured
}

// ShouldAttempt reports whether a remote call is permitted right now. When a
// recorded failure's cooldown has elapsed it clears the failure flag as a
// side effect, granting exactly one optimistic retry.
func (p *Policy) ShouldAttempt() bool {
	if !p.configured {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.failed {
		return true
	}
	if p.now().Sub(p.lastFailure) > p.cooldown {
		p.failed = false
		return true
	}
	return false
}

// MarkFailed records a remote failure, stamping the failure time with now.
// Repeated failures only advance the timestamp; a single failure record is
// kept.
func (p *Policy) MarkFailed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed = true
	p.lastFailure = p.now()
}

// MarkSucceeded clears any recorded failure after a 2xx response.
func (p *Policy) MarkSucceeded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed = false
}

// WouldAttempt reports whether ShouldAttempt would currently permit a call,
// without the half-open side effect. Used where the answer only tunes
// behavior (polling cadence, status display) and must not consume the single
// post-cooldown retry.
func (p *Policy) WouldAttempt() bool {
	if !p.configured {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.failed || p.now().Sub(p.lastFailure) > p.cooldown
}

// Failing reports whether a failure is currently recorded, without the
// half-open side effect of ShouldAttempt. Display only.
func (p *Policy) Failing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}
