// Package rollover resets the aggregate's daily counters on calendar-date
// transitions and mints the identity of each day's draw.
package rollover

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/marple/lotsync/internal/models"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// drawIDSuffixLen is the number of random base36 characters in a draw ID.
const drawIDSuffixLen = 6

// Apply rolls the aggregate over to today when its draw date is stale. It
// zeroes the three daily counters, mints a new draw identity, and stamps
// LastUpdated with at. When the draw date already matches today it is a
// no-op, which makes a second application for the same day idempotent.
//
// Rollover only ever compares against today: when the process has been
// offline across several days the intermediate days' resets are never
// materialized. That is accepted lossy behavior.
func Apply(g *models.GlobalStats, today string, at time.Time) (bool, error) {
	if g.CurrentDrawDate == today {
		return false, nil
	}

	drawID, err := NewDrawID(today)
	if err != nil {
		return false, err
	}
	commitment, err := NewCommitmentHash()
	if err != nil {
		return false, err
	}

	g.TodayTicketsSold = 0
	g.TodayPrizePool = 0
	g.TodayParticipants = 0
	g.CurrentDrawID = drawID
	g.CurrentDrawDate = today
	g.CurrentCommitmentHash = commitment
	g.LastUpdated = at.UTC()
	return true, nil
}

// Fresh returns a zeroed aggregate carrying a newly minted draw identity for
// today. It is the default used on first run and when the cached blob is
// unreadable.
func Fresh(today string, at time.Time) (*models.GlobalStats, error) {
	g := &models.GlobalStats{}
	if _, err := Apply(g, today, at); err != nil {
		return nil, err
	}
	return g, nil
}

// NewDrawID mints a draw identifier of the form DRAW-<date>-<6 base36 chars>.
func NewDrawID(date string) (string, error) {
	b := make([]byte, drawIDSuffixLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate draw id: %w", err)
	}
	suffix := make([]byte, drawIDSuffixLen)
	for i, v := range b {
		suffix[i] = base36Alphabet[int(v)%len(base36Alphabet)]
	}
	return fmt.Sprintf("DRAW-%s-%s", date, suffix), nil
}

// NewCommitmentHash mints the opaque token standing in for the draw's
// pre-committed randomness seed (16 bytes hex). The authoritative commitment
// is produced server-side; this one only has to be unique per rollover.
func NewCommitmentHash() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate commitment hash: %w", err)
	}
	return hex.EncodeToString(b), nil
}
