package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Memory is a Store that lives only as long as the process.
type Memory struct {
	mu sync.Mutex
	s  Settings
}

// NewMemory returns a Memory store holding initial.
func NewMemory(initial Settings) *Memory {
	return &Memory{s: initial}
}

func (m *Memory) Get(context.Context) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, nil
}

func (m *Memory) Merge(_ context.Context, p Patch) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = m.s.Merge(p)
	return m.s, nil
}

const settingsKey = "settings"

// SQLite persists the record as one JSON row in a key/value table.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex // serialises read-modify-write in Merge
}

// OpenSQLite opens or creates the store at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get returns the stored settings. Fields never saved keep their defaults.
func (s *SQLite) Get(ctx context.Context) (Settings, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, settingsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	out := Default()
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return out, nil
}

// Merge applies p to the stored settings and saves the result.
func (s *SQLite) Merge(ctx context.Context, p Patch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	next := cur.Merge(p)

	data, err := json.Marshal(next)
	if err != nil {
		return Settings{}, fmt.Errorf("encoding settings: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		settingsKey, string(data)); err != nil {
		return Settings{}, fmt.Errorf("saving settings: %w", err)
	}
	return next, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
