package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Chat roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one turn of a mentor conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveChat stores one chat turn.
func (s *Store) SaveChat(ctx context.Context, m ChatMessage) (ChatMessage, error) {
	if m.UserID == "" {
		return ChatMessage{}, ErrMissingUser
	}
	if m.Role != RoleUser && m.Role != RoleModel {
		return ChatMessage{}, fmt.Errorf("%w: %q", ErrInvalidRole, m.Role)
	}
	if strings.TrimSpace(m.Text) == "" {
		return ChatMessage{}, ErrEmptyContent
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = s.stamp(m.CreatedAt)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chats (id, user_id, role, text, created_at) VALUES (?, ?, ?, ?, ?)",
		m.ID, m.UserID, m.Role, m.Text, m.CreatedAt.UnixNano(),
	)
	if err != nil {
		return ChatMessage{}, fmt.Errorf("failed to insert chat: %w", err)
	}
	return m, nil
}

// RecentChats returns the user's last limit turns in chronological order.
// A non-positive limit uses DefaultChatLimit.
func (s *Store) RecentChats(ctx context.Context, userID string, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultChatLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, role, text, created_at FROM chats
		 WHERE user_id = ? ORDER BY created_at DESC, seq DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	chats := []ChatMessage{}
	for rows.Next() {
		var m ChatMessage
		var created int64
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Text, &created); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		m.CreatedAt = fromUnixNano(created)
		chats = append(chats, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.Reverse(chats)
	return chats, nil
}
