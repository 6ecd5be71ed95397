package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/marple/lotsync/internal/breaker"
	"github.com/marple/lotsync/internal/cache"
	"github.com/marple/lotsync/internal/models"
	"github.com/marple/lotsync/internal/remote"
)

func TestSubscribeDeliversImmediately(t *testing.T) {
	e, _ := newLocalEngine(t)

	updates := make(chan *models.GlobalStats, 1)
	cancel := e.Subscribe(context.Background(), func(g *models.GlobalStats) {
		select {
		case updates <- g:
		default:
		}
	}, time.Hour) // interval long enough that only the immediate read fires
	defer cancel()

	select {
	case g := <-updates:
		if g.CurrentDrawDate != "2026-08-25" {
			t.Errorf("CurrentDrawDate: got %q, want 2026-08-25", g.CurrentDrawDate)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no update delivered before the first timer tick")
	}
}

func TestSubscribePollsRepeatedly(t *testing.T) {
	e, _ := newLocalEngine(t)

	updates := make(chan struct{}, 8)
	cancel := e.Subscribe(context.Background(), func(*models.GlobalStats) {
		updates <- struct{}{}
	}, 10*time.Millisecond)
	defer cancel()

	deadline := time.After(2 * time.Second)
	for i := 0; i < 3; i++ {
		select {
		case <-updates:
		case <-deadline:
			t.Fatalf("only %d updates delivered within deadline", i)
		}
	}
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	e, _ := newLocalEngine(t)

	updates := make(chan struct{}, 64)
	cancel := e.Subscribe(context.Background(), func(*models.GlobalStats) {
		updates <- struct{}{}
	}, 5*time.Millisecond)

	// Wait for the loop to be alive, then cancel.
	select {
	case <-updates:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription never delivered")
	}
	cancel()

	// Drain anything already in flight, then verify silence.
	time.Sleep(50 * time.Millisecond)
	for len(updates) > 0 {
		<-updates
	}
	select {
	case <-updates:
		t.Error("update delivered after cancel")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscribeCancelDoesNotAbortInFlightRead(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-release
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&models.GlobalStats{CurrentDrawDate: "2026-08-25"})
	}))
	t.Cleanup(srv.Close)

	store := cache.NewMemory()
	policy := breaker.NewWithClock(true, breaker.DefaultCooldown, fixedClock)
	e := NewWithClock(store, remote.New(srv.URL, ""), policy, fixedClock)

	updates := make(chan struct{}, 1)
	cancel := e.Subscribe(context.Background(), func(*models.GlobalStats) {
		updates <- struct{}{}
	}, time.Hour)

	// Cancel while the immediate read's request is still in flight, then let
	// the backend answer.
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("immediate read never reached the backend")
	}
	cancel()
	close(release)

	// The completed read is discarded at delivery time.
	select {
	case <-updates:
		t.Error("update delivered after cancel")
	case <-time.After(200 * time.Millisecond):
	}

	// The healthy backend answered; cancellation must not read as a failure.
	if e.Policy().Failing() {
		t.Error("cancelling the subscription armed the breaker")
	}
}

func TestSubscribeHonorsParentContext(t *testing.T) {
	e, _ := newLocalEngine(t)
	ctx, stop := context.WithCancel(context.Background())

	updates := make(chan struct{}, 64)
	cancel := e.Subscribe(ctx, func(*models.GlobalStats) {
		updates <- struct{}{}
	}, 5*time.Millisecond)
	defer cancel()

	select {
	case <-updates:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription never delivered")
	}
	stop()

	time.Sleep(50 * time.Millisecond)
	for len(updates) > 0 {
		<-updates
	}
	select {
	case <-updates:
		t.Error("update delivered after parent context cancellation")
	case <-time.After(100 * time.Millisecond):
	}
}
