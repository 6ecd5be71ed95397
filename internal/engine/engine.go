// Package engine composes the cache, rollover policy, breaker, and remote
// transport into the four public sync operations. Every operation commits
// locally first, then reconciles with the backend when the breaker permits;
// callers always get usable data back, at worst tagged as offline.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/marple/lotsync/internal/breaker"
	"github.com/marple/lotsync/internal/models"
	"github.com/marple/lotsync/internal/remote"
	"github.com/marple/lotsync/internal/rollover"
)

// StatsKey is the single fixed cache key holding the serialized aggregate.
const StatsKey = "global_stats"

// ticketNetContribution is the fixed per-ticket net contribution to today's
// prize pool. The pool is recomputed in full from the ticket count on every
// purchase, so any drift in the multiplier self-corrects on the next call.
const ticketNetContribution = 0.95

// Store is the persistence contract the engine needs: a string-keyed blob
// store where absence is not an error. Satisfied by cache.Cache and
// cache.Memory.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Result is the uniform envelope returned by every public operation. Success
// is true whenever usable data is returned, which is always; Offline and Err
// are advisory metadata, not failure signals.
type Result struct {
	Success bool
	Stats   *models.GlobalStats
	Offline bool
	Err     string
}

// Engine runs the sync operations. The mutex serializes every local
// read-modify-write so two concurrent mutations cannot lose an update; the
// remote call happens outside the lock.
type Engine struct {
	store  Store
	remote *remote.Client // nil when no backend is configured
	policy *breaker.Policy
	mu     sync.Mutex
	now    func() time.Time
}

// New creates an engine. client may be nil for permanent local-only mode;
// the policy's configured flag must agree with it.
func New(store Store, client *remote.Client, policy *breaker.Policy) *Engine {
	return &Engine{
		store:  store,
		remote: client,
		policy: policy,
		now:    time.Now,
	}
}

// NewWithClock is New with an injectable clock for date-rollover tests.
func NewWithClock(store Store, client *remote.Client, policy *breaker.Policy, now func() time.Time) *Engine {
	e := New(store, client, policy)
	if now != nil {
		e.now = now
	}
	return e
}

// Policy exposes the availability policy for status display.
func (e *Engine) Policy() *breaker.Policy {
	return e.policy
}

// LocalStats returns the rolled-over local aggregate without attempting any
// remote call. Used for status display and draw-id defaulting.
func (e *Engine) LocalStats() *models.GlobalStats {
	return e.loadAndPersist()
}

// ReadStats returns the aggregate. When the breaker permits, the backend's
// answer replaces the local cache wholesale; otherwise, or on any remote
// failure, the locally rolled-over aggregate is returned. The fallback is
// silent: reads never report offline.
func (e *Engine) ReadStats(ctx context.Context) Result {
	local := e.loadAndPersist()

	if !e.policy.ShouldAttempt() {
		return Result{Success: true, Stats: local}
	}

	stats, err := e.remote.FetchStats(ctx)
	if err != nil {
		e.policy.MarkFailed()
		slog.Debug("stats fetch failed, serving local aggregate", "err", err)
		return Result{Success: true, Stats: local}
	}

	e.policy.MarkSucceeded()
	e.replaceLocal(stats)
	return Result{Success: true, Stats: stats}
}

// RecordTicketPurchase optimistically applies a ticket purchase to the local
// aggregate, then reconciles with the backend. The caller is trusted to call
// it once per distinct participant event; no userID dedup is performed.
func (e *Engine) RecordTicketPurchase(ctx context.Context, userID, ticketID, drawID, username string) Result {
	local := e.mutateLocal(func(g *models.GlobalStats) {
		g.TodayTicketsSold++
		g.TodayPrizePool = float64(g.TodayTicketsSold) * ticketNetContribution
		g.TodayParticipants++
		g.AllTimeTotalTickets++
	})

	if !e.policy.ShouldAttempt() {
		return Result{Success: true, Stats: local}
	}

	stats, err := e.remote.PostTicket(ctx, remote.TicketEvent{
		UserID:    userID,
		TicketID:  ticketID,
		DrawID:    drawID,
		Username:  username,
		Timestamp: e.timestamp(),
	})
	return e.reconcile(local, stats, err)
}

// RecordUserRegistration optimistically increments the lifetime user count,
// then reconciles with the backend.
func (e *Engine) RecordUserRegistration(ctx context.Context, userID string) Result {
	local := e.mutateLocal(func(g *models.GlobalStats) {
		g.TotalUsers++
	})

	if !e.policy.ShouldAttempt() {
		return Result{Success: true, Stats: local}
	}

	stats, err := e.remote.PostUser(ctx, remote.UserEvent{
		UserID:    userID,
		Timestamp: e.timestamp(),
	})
	return e.reconcile(local, stats, err)
}

// RecordDrawCompletion folds a completed draw into the lifetime counters and
// the winner snapshot, then reconciles with the backend. totalEntries is
// forwarded for backend audit only.
func (e *Engine) RecordDrawCompletion(ctx context.Context, drawID, winnerUsername, winnerTicketID string, prizeAmount float64, totalEntries int64) Result {
	today := e.today()
	local := e.mutateLocal(func(g *models.GlobalStats) {
		g.AllTimeTotalDraws++
		g.AllTimeTotalWinners++
		g.AllTimeTotalPrizes += prizeAmount
		g.AveragePoolSize = g.AllTimeTotalPrizes / float64(g.AllTimeTotalDraws)
		// Strict increase only: a tie keeps the earlier date.
		if prizeAmount > g.LargestPoolEver {
			g.LargestPoolEver = prizeAmount
			g.LargestPoolDate = today
		}
		g.LastWinner = &models.LastWinner{
			Username: winnerUsername,
			Amount:   prizeAmount,
			TicketID: winnerTicketID,
			DrawID:   drawID,
			Date:     today,
		}
	})

	if !e.policy.ShouldAttempt() {
		return Result{Success: true, Stats: local}
	}

	stats, err := e.remote.PostDrawCompletion(ctx, remote.DrawCompletionEvent{
		DrawID:         drawID,
		WinnerUsername: winnerUsername,
		WinnerTicketID: winnerTicketID,
		PrizeAmount:    prizeAmount,
		TotalEntries:   totalEntries,
		Timestamp:      e.timestamp(),
	})
	return e.reconcile(local, stats, err)
}

// reconcile finishes a mutating operation's remote phase: a server answer
// replaces the local cache wholesale; a failure arms the breaker and returns
// the already-persisted local aggregate tagged offline.
func (e *Engine) reconcile(local *models.GlobalStats, stats *models.GlobalStats, err error) Result {
	if err != nil {
		e.policy.MarkFailed()
		slog.Debug("remote sync failed, keeping optimistic local aggregate", "err", err)
		return Result{Success: true, Stats: local, Offline: true, Err: err.Error()}
	}
	e.policy.MarkSucceeded()
	e.replaceLocal(stats)
	return Result{Success: true, Stats: stats}
}

func (e *Engine) today() string {
	return e.now().Format(models.DateFormat)
}

func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

// mutateLocal runs the optimistic local commit phase: load, rollover, mutate,
// persist, all under the engine mutex. The returned aggregate is a copy.
func (e *Engine) mutateLocal(mutate func(*models.GlobalStats)) *models.GlobalStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.loadLocked()
	mutate(g)
	g.LastUpdated = e.now().UTC()
	e.persistLocked(g)
	return g.Clone()
}

// loadAndPersist loads the rolled-over aggregate, persisting it when the
// load changed anything (rollover, first run, recovered corruption) so the
// reset survives a restart.
func (e *Engine) loadAndPersist() *models.GlobalStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, changed := e.loadChangedLocked()
	if changed {
		e.persistLocked(g)
	}
	return g.Clone()
}

// replaceLocal stores a server aggregate verbatim as the new local cache.
// No field merge ever happens; the server's answer is the whole truth.
func (e *Engine) replaceLocal(g *models.GlobalStats) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.persistLocked(g)
}

// loadLocked reads and rolls over the cached aggregate. Persistence failures
// and corrupt blobs are recovered with a freshly minted default; they are
// never propagated to callers.
func (e *Engine) loadLocked() *models.GlobalStats {
	g, _ := e.loadChangedLocked()
	return g
}

// loadChangedLocked is loadLocked plus whether the returned aggregate differs
// from what the cache held (rollover applied, key absent, or blob recovered).
func (e *Engine) loadChangedLocked() (*models.GlobalStats, bool) {
	today := e.today()

	raw, ok, err := e.store.Get(StatsKey)
	if err != nil {
		slog.Warn("stats cache unreadable, starting from defaults", "err", err)
		return e.freshLocked(today), true
	}
	if !ok {
		return e.freshLocked(today), true
	}

	var g models.GlobalStats
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		slog.Warn("stats cache corrupt, starting from defaults", "err", err)
		return e.freshLocked(today), true
	}

	rolled, err := rollover.Apply(&g, today, e.now())
	if err != nil {
		slog.Warn("rollover failed, keeping stale draw identity", "err", err)
	}
	return &g, rolled
}

func (e *Engine) freshLocked(today string) *models.GlobalStats {
	g, err := rollover.Fresh(today, e.now())
	if err != nil {
		slog.Warn("mint default aggregate", "err", err)
		return &models.GlobalStats{CurrentDrawDate: today, LastUpdated: e.now().UTC()}
	}
	return g
}

func (e *Engine) persistLocked(g *models.GlobalStats) {
	data, err := json.Marshal(g)
	if err != nil {
		slog.Warn("marshal stats for cache", "err", err)
		return
	}
	if err := e.store.Set(StatsKey, string(data)); err != nil {
		slog.Warn("persist stats cache", "err", err)
	}
}
