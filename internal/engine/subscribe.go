package engine

import (
	"context"
	"time"

	"github.com/marple/lotsync/internal/models"
)

// DefaultPollInterval is the subscription cadence while remote attempts are
// permitted. The cadence widens threefold when only the local cache would be
// read, since frequent polling buys nothing offline.
const DefaultPollInterval = 10 * time.Second

const offlineIntervalFactor = 3

// Subscribe starts a polling loop that delivers each successful read to
// onUpdate, beginning with one immediate read before the first timer tick.
// The returned cancel function is cooperative: a poll already past its
// availability check completes its network call, then checks cancellation
// before delivering.
func (e *Engine) Subscribe(ctx context.Context, onUpdate func(*models.GlobalStats), interval time.Duration) (cancel func()) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel = context.WithCancel(ctx)

	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			// The read runs detached from the cancel context so cancellation
			// cannot abort it mid-network-call; an aborted request would look
			// like a backend failure and spuriously arm the breaker.
			res := e.ReadStats(context.WithoutCancel(ctx))

			// Cancellation is honored at delivery time, never mid-call.
			if ctx.Err() != nil {
				return
			}
			if res.Success && res.Stats != nil {
				onUpdate(res.Stats)
			}

			next := interval
			if !e.policy.WouldAttempt() {
				next = interval * offlineIntervalFactor
			}
			timer.Reset(next)
		}
	}()

	return cancel
}
