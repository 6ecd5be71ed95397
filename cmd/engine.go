package cmd

import (
	"fmt"

	"github.com/marple/lotsync/internal/breaker"
	"github.com/marple/lotsync/internal/cache"
	"github.com/marple/lotsync/internal/config"
	"github.com/marple/lotsync/internal/engine"
	"github.com/marple/lotsync/internal/remote"
)

// buildEngine wires the sync engine from configuration: sqlite cache, breaker
// seeded with whether a backend URL is known, and the HTTP client when it is.
// The caller must Close the returned cache.
func buildEngine() (*engine.Engine, *cache.Cache, error) {
	path, err := config.CachePath()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve cache path: %w", err)
	}
	store, err := cache.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open stats cache: %w", err)
	}

	url := config.GetServerURL()
	var client *remote.Client
	if url != "" {
		client = remote.New(url, config.GetAPIKey())
	}

	return engine.New(store, client, breaker.New(url != "")), store, nil
}
