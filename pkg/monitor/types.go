package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/marple/lotsync/internal/models"
)

// Minimum dimensions for the dashboard
const (
	MinWidth  = 40
	MinHeight = 12
)

// TickMsg triggers a data refresh
type TickMsg time.Time

// RefreshMsg carries a refreshed aggregate
type RefreshMsg struct {
	Stats   *models.GlobalStats
	Offline bool
}

// keyMap defines the dashboard key bindings.
type keyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh now"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
	}
}
