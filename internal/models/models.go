// Package models defines the shared statistics aggregate synchronized
// between the local cache and the remote stats backend.
package models

import "time"

// DateFormat is the calendar-date layout used for draw dates (local time).
const DateFormat = "2006-01-02"

// GlobalStats is the single shared counter-aggregate. It is always replaced
// wholesale by whichever source answered last (local cache or backend), never
// merged field by field.
type GlobalStats struct {
	// Lifetime counters, monotonically non-decreasing.
	TotalUsers          int64   `json:"totalUsers"`
	AllTimeTotalTickets int64   `json:"allTimeTotalTickets"`
	AllTimeTotalPrizes  float64 `json:"allTimeTotalPrizes"`
	AllTimeTotalDraws   int64   `json:"allTimeTotalDraws"`
	AllTimeTotalWinners int64   `json:"allTimeTotalWinners"`

	// Daily counters, valid only for CurrentDrawDate.
	TodayTicketsSold  int64   `json:"todayTicketsSold"`
	TodayPrizePool    float64 `json:"todayPrizePool"`
	TodayParticipants int64   `json:"todayParticipants"`

	// Derived fields. AveragePoolSize is always recomputed from
	// AllTimeTotalPrizes / AllTimeTotalDraws, never stored independently.
	AveragePoolSize float64 `json:"averagePoolSize"`
	LargestPoolEver float64 `json:"largestPoolEver"`
	LargestPoolDate string  `json:"largestPoolDate,omitempty"`

	// LastWinner is nil until the first draw completes.
	LastWinner *LastWinner `json:"lastWinner,omitempty"`

	// Current draw identity.
	CurrentDrawID         string `json:"currentDrawId"`
	CurrentDrawDate       string `json:"currentDrawDate"`
	CurrentCommitmentHash string `json:"currentCommitmentHash"`

	// LastUpdated is for display and debugging only; it plays no part in
	// conflict resolution.
	LastUpdated time.Time `json:"lastUpdated"`
}

// LastWinner is a snapshot of the most recent completed draw's winner.
type LastWinner struct {
	Username string  `json:"username"`
	Amount   float64 `json:"amount"`
	TicketID string  `json:"ticketId"`
	DrawID   string  `json:"drawId"`
	Date     string  `json:"date"`
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing internal state.
func (g *GlobalStats) Clone() *GlobalStats {
	if g == nil {
		return nil
	}
	dup := *g
	if g.LastWinner != nil {
		w := *g.LastWinner
		dup.LastWinner = &w
	}
	return &dup
}
