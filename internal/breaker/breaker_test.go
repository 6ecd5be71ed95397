package breaker

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for deterministic cooldown tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestPolicy(configured bool) (*Policy, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)}
	return NewWithClock(configured, DefaultCooldown, clock.now), clock
}

func TestUnconfiguredNeverAttempts(t *testing.T) {
	p, _ := newTestPolicy(false)
	if p.ShouldAttempt() {
		t.Error("ShouldAttempt true with no backend configured")
	}
	// Failure bookkeeping must not change the answer.
	p.MarkFailed()
	p.MarkSucceeded()
	if p.ShouldAttempt() {
		t.Error("ShouldAttempt true with no backend configured after mark calls")
	}
}

func TestHealthyPolicyAttempts(t *testing.T) {
	p, _ := newTestPolicy(true)
	if !p.ShouldAttempt() {
		t.Error("ShouldAttempt false with no recorded failure")
	}
}

func TestCooldownSuppressesAttempts(t *testing.T) {
	p, clock := newTestPolicy(true)
	p.MarkFailed()
	failedAt := clock.t

	for _, d := range []time.Duration{0, time.Second, 30 * time.Second, 59 * time.Second, DefaultCooldown} {
		clock.t = failedAt.Add(d)
		if p.ShouldAttempt() {
			t.Fatalf("ShouldAttempt true %v after failure, inside cooldown", d)
		}
	}
}

func TestCooldownExpiryGrantsSingleRetry(t *testing.T) {
	p, clock := newTestPolicy(true)
	p.MarkFailed()

	clock.advance(DefaultCooldown + time.Second)
	if !p.ShouldAttempt() {
		t.Fatal("ShouldAttempt false after cooldown elapsed")
	}
	// The permitted attempt cleared the failure flag as a side effect.
	if p.Failing() {
		t.Error("failure flag still set after half-open grant")
	}
	if !p.ShouldAttempt() {
		t.Error("ShouldAttempt false after flag cleared")
	}

	// A failed probe re-opens for another full cooldown.
	p.MarkFailed()
	if p.ShouldAttempt() {
		t.Error("ShouldAttempt true immediately after failed probe")
	}
	clock.advance(DefaultCooldown + time.Second)
	if !p.ShouldAttempt() {
		t.Error("ShouldAttempt false after second cooldown elapsed")
	}
}

func TestMarkSucceededClearsFailure(t *testing.T) {
	p, _ := newTestPolicy(true)
	p.MarkFailed()
	p.MarkSucceeded()
	if !p.ShouldAttempt() {
		t.Error("ShouldAttempt false after MarkSucceeded")
	}
}

// Three rapid failures keep a single failure record; the breaker stays open
// until one full cooldown from the latest failure.
func TestRepeatedFailuresExtendFromLatest(t *testing.T) {
	p, clock := newTestPolicy(true)

	p.MarkFailed()
	clock.advance(5 * time.Second)
	p.MarkFailed()
	clock.advance(5 * time.Second)
	p.MarkFailed() // latest failure at t+10s

	clock.advance(55 * time.Second) // 55s after latest, 65s after first
	if p.ShouldAttempt() {
		t.Error("ShouldAttempt true before cooldown from latest failure elapsed")
	}

	clock.advance(6 * time.Second) // 61s after latest
	if !p.ShouldAttempt() {
		t.Error("ShouldAttempt false after cooldown from latest failure elapsed")
	}
}
