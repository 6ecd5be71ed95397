// Package config resolves lotsync settings. Environment variables win over
// the config file at ~/.config/lotsync/config.json, which wins over defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SyncConfig holds backend sync settings. An empty URL disables remote sync
// entirely; the tool then runs in permanent local-only mode.
type SyncConfig struct {
	URL          string `json:"url,omitempty"`
	APIKey       string `json:"api_key,omitempty"`
	PollInterval string `json:"poll_interval,omitempty"` // duration string, default "10s"
}

// Config is the global lotsync config stored at ~/.config/lotsync/config.json.
type Config struct {
	Sync    SyncConfig `json:"sync"`
	DataDir string     `json:"data_dir,omitempty"`
}

const defaultPollInterval = 10 * time.Second

// ConfigDir returns ~/.config/lotsync, creating it if necessary.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".config", "lotsync")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// LoadConfig reads the global config file. A missing file is not an error;
// it yields the zero config.
func LoadConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig writes the global config file.
func SaveConfig(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// GetServerURL returns the stats backend base URL, or "" when remote sync is
// disabled. Priority: LOTSYNC_API_URL env > config.json. There is no default:
// absence means local-only mode for the process lifetime.
func GetServerURL() string {
	if v := os.Getenv("LOTSYNC_API_URL"); v != "" {
		return v
	}
	cfg, err := LoadConfig()
	if err == nil {
		return cfg.Sync.URL
	}
	return ""
}

// GetAPIKey returns the bearer credential, if any.
// Priority: LOTSYNC_API_KEY env > config.json.
func GetAPIKey() string {
	if v := os.Getenv("LOTSYNC_API_KEY"); v != "" {
		return v
	}
	cfg, err := LoadConfig()
	if err == nil {
		return cfg.Sync.APIKey
	}
	return ""
}

// GetPollInterval returns the subscription polling cadence.
// Priority: LOTSYNC_POLL_INTERVAL env > config.json sync.poll_interval > 10s.
func GetPollInterval() time.Duration {
	if v := os.Getenv("LOTSYNC_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	cfg, err := LoadConfig()
	if err == nil && cfg.Sync.PollInterval != "" {
		if d, err := time.ParseDuration(cfg.Sync.PollInterval); err == nil && d > 0 {
			return d
		}
	}
	return defaultPollInterval
}

// GetDataDir returns the directory holding the local stats cache.
// Priority: LOTSYNC_DATA_DIR env > config.json data_dir > ~/.local/share/lotsync.
func GetDataDir() (string, error) {
	if v := os.Getenv("LOTSYNC_DATA_DIR"); v != "" {
		return v, nil
	}
	cfg, err := LoadConfig()
	if err == nil && cfg.DataDir != "" {
		return cfg.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "lotsync"), nil
}

// CachePath returns the path of the sqlite stats cache.
func CachePath() (string, error) {
	dir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "stats.db"), nil
}
