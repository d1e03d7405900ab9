// Package store persists journal entries, mentor chats and goals in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a goal id does not exist for the user.
	ErrNotFound = errors.New("not found")
	// ErrEmptyContent is returned for blank entry content, chat text or goal titles.
	ErrEmptyContent = errors.New("content must not be empty")
	// ErrMissingUser is returned when a record has no user id.
	ErrMissingUser = errors.New("user id is required")
	// ErrInvalidRole is returned for chat roles other than user or model.
	ErrInvalidRole = errors.New("invalid chat role")
	// ErrInvalidStatus is returned for goal statuses other than Active or Achieved.
	ErrInvalidStatus = errors.New("invalid goal status")
)

const (
	DefaultEntryLimit = 10
	DefaultChatLimit  = 20
)

// Store is a SQLite backed repository. Writes are serialised; reads run
// concurrently under WAL.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
	now  func() time.Time
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	entries := `
	CREATE TABLE IF NOT EXISTS entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		sentiment REAL,
		emotion TEXT NOT NULL DEFAULT '',
		analysis TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_user ON entries(user_id, created_at);
	`

	chats := `
	CREATE TABLE IF NOT EXISTS chats (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chats_user ON chats(user_id, created_at);
	`

	goals := `
	CREATE TABLE IF NOT EXISTS goals (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id, status);
	`

	for _, table := range []string{entries, chats, goals} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now().UTC()
	}
	return t.UTC()
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
