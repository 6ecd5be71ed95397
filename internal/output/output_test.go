package output

import (
	"strings"
	"testing"
	"time"

	"github.com/marple/lotsync/internal/models"
)

func TestFormatStats(t *testing.T) {
	g := &models.GlobalStats{
		TotalUsers:          42,
		AllTimeTotalTickets: 1200,
		AllTimeTotalPrizes:  5400.5,
		AllTimeTotalDraws:   12,
		AllTimeTotalWinners: 12,
		TodayTicketsSold:    33,
		TodayPrizePool:      31.35,
		TodayParticipants:   20,
		AveragePoolSize:     450.04,
		LargestPoolEver:     900,
		LargestPoolDate:     "2026-08-01",
		LastWinner: &models.LastWinner{
			Username: "alice",
			Amount:   900,
			TicketID: "t-77",
			DrawID:   "DRAW-2026-08-01-abc123",
			Date:     "2026-08-01",
		},
		CurrentDrawID:   "DRAW-2026-08-25-xyz789",
		CurrentDrawDate: "2026-08-25",
		LastUpdated:     time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	}

	out := FormatStats(g)
	for _, want := range []string{
		"2026-08-25",
		"DRAW-2026-08-25-xyz789",
		"1200",
		"31.35",
		"alice",
		"900.00",
		"on 2026-08-01",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatStats output missing %q\n%s", want, out)
		}
	}
}

func TestFormatStatsHidesEmptySections(t *testing.T) {
	g := &models.GlobalStats{
		CurrentDrawID:   "DRAW-2026-08-25-xyz789",
		CurrentDrawDate: "2026-08-25",
	}

	out := FormatStats(g)
	if strings.Contains(out, "Last winner") {
		t.Error("winner section rendered with no winner")
	}
	if strings.Contains(out, "Average pool") {
		t.Error("average pool rendered with zero draws")
	}
}

func TestTerminalWidthFallback(t *testing.T) {
	t.Setenv("COLUMNS", "")
	if w := TerminalWidth(72); w <= 0 {
		t.Errorf("TerminalWidth: got %d, want positive", w)
	}

	t.Setenv("COLUMNS", "100")
	// In a test run stdout is not a terminal, so COLUMNS wins.
	if w := TerminalWidth(72); w != 100 {
		t.Errorf("TerminalWidth with COLUMNS=100: got %d", w)
	}
}
