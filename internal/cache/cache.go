// Package cache is the local persisted side of the sync engine: a sqlite
// string-keyed blob store holding the JSON-serialized aggregate under a
// single fixed key.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// Cache is a sqlite-backed key-value store. Writes are serialized through an
// in-process mutex on top of sqlite's own locking.
type Cache struct {
	conn *sql.DB
	mu   sync.Mutex
	path string
}

// Open opens (creating if necessary) the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	// WAL mode for concurrent reads while writes are serialized.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &Cache{conn: conn, path: path}, nil
}

// OpenDB wraps an already-open database connection, creating the kv table if
// needed. Tests use it with an in-memory sqlite database.
func OpenDB(conn *sql.DB) (*Cache, error) {
	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &Cache{conn: conn, path: ":memory:"}, nil
}

// Get returns the value stored under key. Absence is not an error: the
// second return is false when the key has never been set.
func (c *Cache) Get(key string) (string, bool, error) {
	var value string
	err := c.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (c *Cache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.conn.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

// UpdatedAt returns the last write time of key as stored by sqlite, for
// display only. Absent keys return ok=false.
func (c *Cache) UpdatedAt(key string) (string, bool, error) {
	var ts string
	err := c.conn.QueryRow(`SELECT updated_at FROM kv WHERE key = ?`, key).Scan(&ts)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read key %q: %w", key, err)
	}
	return ts, true, nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.conn.Close()
}
