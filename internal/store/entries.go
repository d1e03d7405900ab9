package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mengmoon/mind-universe/pkg/journal"
)

// Entry is one journal entry. Sentiment is nil until the entry is scored.
type Entry struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Sentiment *float64          `json:"sentiment,omitempty"`
	Emotion   string            `json:"emotion,omitempty"`
	Analysis  *journal.Analysis `json:"analysis,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// SaveEntry stores e, assigning an id and timestamp when unset.
func (s *Store) SaveEntry(ctx context.Context, e Entry) (Entry, error) {
	if e.UserID == "" {
		return Entry{}, ErrMissingUser
	}
	if strings.TrimSpace(e.Content) == "" {
		return Entry{}, ErrEmptyContent
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = s.stamp(e.CreatedAt)

	var sentiment sql.NullFloat64
	if e.Sentiment != nil {
		sentiment = sql.NullFloat64{Float64: *e.Sentiment, Valid: true}
	}
	var analysis sql.NullString
	if e.Analysis != nil {
		raw, err := json.Marshal(e.Analysis)
		if err != nil {
			return Entry{}, fmt.Errorf("failed to encode analysis: %w", err)
		}
		analysis = sql.NullString{String: string(raw), Valid: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, user_id, title, content, sentiment, emotion, analysis, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Title, e.Content, sentiment, e.Emotion, analysis, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to insert entry: %w", err)
	}
	return e, nil
}

// RecentEntries returns the user's newest entries first. A non-positive
// limit uses DefaultEntryLimit.
func (s *Store) RecentEntries(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultEntryLimit
	}
	return s.queryEntries(ctx,
		`SELECT id, user_id, title, content, sentiment, emotion, analysis, created_at
		 FROM entries WHERE user_id = ? ORDER BY created_at DESC, seq DESC LIMIT ?`,
		userID, limit,
	)
}

// AllEntries returns every entry for the user in chronological order.
func (s *Store) AllEntries(ctx context.Context, userID string) ([]Entry, error) {
	return s.queryEntries(ctx,
		`SELECT id, user_id, title, content, sentiment, emotion, analysis, created_at
		 FROM entries WHERE user_id = ? ORDER BY created_at ASC, seq ASC`,
		userID,
	)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e         Entry
			sentiment sql.NullFloat64
			analysis  sql.NullString
			created   int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &sentiment, &e.Emotion, &analysis, &created); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if sentiment.Valid {
			v := sentiment.Float64
			e.Sentiment = &v
		}
		if analysis.Valid {
			var a journal.Analysis
			if err := json.Unmarshal([]byte(analysis.String), &a); err != nil {
				return nil, fmt.Errorf("failed to decode analysis for entry %s: %w", e.ID, err)
			}
			e.Analysis = &a
		}
		e.CreatedAt = fromUnixNano(created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
