// Package store persists small pieces of client state in a local SQLite
// file under fixed keys. Values use the {"state": ..., "version": N}
// envelope so they stay readable by other clients of the same stores.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	// AuthKey holds the bearer token and the signed-in user.
	AuthKey = "auth-storage"
	// ThemeKey holds the dark-mode flag.
	ThemeKey = "theme-storage"

	stateVersion = 0
	dbFileName   = "store.db"
)

// Store is a key-value table in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns the store location under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "hirematch", dbFileName), nil
}

// Open opens or creates the store at path. An empty path uses DefaultPath.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", filepath.Dir(path), err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the raw value under key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: get %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// Put writes value under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store: put %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	return nil
}

type envelope[T any] struct {
	State   T   `json:"state"`
	Version int `json:"version"`
}

// loadState decodes the envelope under key. ok is false when nothing is stored.
func loadState[T any](ctx context.Context, s *Store, key string) (state T, ok bool, err error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return state, false, err
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return state, false, fmt.Errorf("store: decode %q: %w", key, err)
	}
	return env.State, true, nil
}

func saveState[T any](ctx context.Context, s *Store, key string, state T) error {
	raw, err := json.Marshal(envelope[T]{State: state, Version: stateVersion})
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}
