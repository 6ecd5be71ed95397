// Package monitor is the live statistics dashboard: a bubbletea program that
// polls the sync engine on an interval and renders the aggregate.
package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marple/lotsync/internal/engine"
	"github.com/marple/lotsync/internal/models"
	"github.com/marple/lotsync/internal/output"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// Model is the dashboard state. Refreshes happen on a tick chain: every
// TickMsg schedules both a fetch and the next tick.
type Model struct {
	Engine          *engine.Engine
	RefreshInterval time.Duration
	Version         string

	Stats   *models.GlobalStats
	Offline bool
	Width   int
	Height  int

	keys keyMap
}

// NewModel creates a dashboard model polling eng every interval.
func NewModel(eng *engine.Engine, interval time.Duration, version string) Model {
	if interval <= 0 {
		interval = engine.DefaultPollInterval
	}
	return Model{
		Engine:          eng,
		RefreshInterval: interval,
		Version:         version,
		keys:            defaultKeyMap(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchData(), m.scheduleTick())
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		// Fetch and reschedule together so the poll chain never breaks.
		return m, tea.Batch(m.fetchData(), m.scheduleTick())

	case RefreshMsg:
		m.Stats = msg.Stats
		m.Offline = msg.Offline
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.fetchData()
		}
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	if m.Width > 0 && (m.Width < MinWidth || m.Height < MinHeight) {
		return "Terminal too small\n"
	}

	header := "lotsync monitor"
	if m.Version != "" {
		header += " " + m.Version
	}
	out := headerStyle.Render(header) + "\n\n"

	if m.Stats == nil {
		out += "Loading...\n"
		return out
	}

	out += output.FormatStats(m.Stats)

	footer := "r refresh, q quit"
	if m.Offline {
		footer = offlineStyle.Render("OFFLINE") + "  " + footer
	}
	out += "\n" + footerStyle.Render(footer) + "\n"
	return out
}

// scheduleTick returns a command that sends a TickMsg after the refresh interval
func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.RefreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// fetchData returns a command that reads the aggregate and reports whether
// the backend is currently unreachable.
func (m Model) fetchData() tea.Cmd {
	return func() tea.Msg {
		res := m.Engine.ReadStats(context.Background())
		return RefreshMsg{
			Stats:   res.Stats,
			Offline: m.Engine.Policy().Failing(),
		}
	}
}
