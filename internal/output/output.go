// Package output provides styled terminal output helpers (success, error,
// warning, stats formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/marple/lotsync/internal/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	winnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// Offline prints the degraded-sync notice shown after an offline mutation.
func Offline() {
	fmt.Println(subtleStyle.Render("(offline: recorded locally, will sync when the backend is reachable)"))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// TerminalWidth returns the current terminal width or a fallback when
// unavailable.
func TerminalWidth(fallback int) int {
	if fallback <= 0 {
		fallback = 80
	}
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if parsed, err := strconv.Atoi(cols); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

// FormatStats renders the aggregate as a readable block.
func FormatStats(g *models.GlobalStats) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Global lottery statistics"))
	b.WriteString("\n\n")

	section := func(name string) {
		b.WriteString(titleStyle.Render(name))
		b.WriteString("\n")
	}
	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %-22s %s\n", label, valueStyle.Render(value)))
	}

	section(fmt.Sprintf("Today (%s)", g.CurrentDrawDate))
	row("Draw", g.CurrentDrawID)
	row("Tickets sold", strconv.FormatInt(g.TodayTicketsSold, 10))
	row("Prize pool", formatAmount(g.TodayPrizePool))
	row("Participants", strconv.FormatInt(g.TodayParticipants, 10))

	b.WriteString("\n")
	section("All time")
	row("Users", strconv.FormatInt(g.TotalUsers, 10))
	row("Tickets", strconv.FormatInt(g.AllTimeTotalTickets, 10))
	row("Prizes paid", formatAmount(g.AllTimeTotalPrizes))
	row("Draws", strconv.FormatInt(g.AllTimeTotalDraws, 10))
	row("Winners", strconv.FormatInt(g.AllTimeTotalWinners, 10))
	if g.AllTimeTotalDraws > 0 {
		row("Average pool", formatAmount(g.AveragePoolSize))
	}
	if g.LargestPoolEver > 0 {
		largest := formatAmount(g.LargestPoolEver)
		if g.LargestPoolDate != "" {
			largest += subtleStyle.Render(" on " + g.LargestPoolDate)
		}
		row("Largest pool", largest)
	}

	if w := g.LastWinner; w != nil {
		b.WriteString("\n")
		section("Last winner")
		row("Username", winnerStyle.Render(w.Username))
		row("Amount", formatAmount(w.Amount))
		row("Ticket", w.TicketID)
		row("Draw", w.DrawID+subtleStyle.Render(" on "+w.Date))
	}

	if !g.LastUpdated.IsZero() {
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("Last updated " + g.LastUpdated.Format("2006-01-02 15:04:05 MST")))
		b.WriteString("\n")
	}

	return b.String()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
