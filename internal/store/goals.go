package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Goal statuses.
const (
	GoalActive   = "Active"
	GoalAchieved = "Achieved"
)

// Goal is a user-defined objective tracked alongside the journal.
type Goal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidGoalStatus reports whether status is Active or Achieved.
func ValidGoalStatus(status string) bool {
	return status == GoalActive || status == GoalAchieved
}

// AddGoal stores g. New goals default to Active.
func (s *Store) AddGoal(ctx context.Context, g Goal) (Goal, error) {
	if g.UserID == "" {
		return Goal{}, ErrMissingUser
	}
	if strings.TrimSpace(g.Title) == "" {
		return Goal{}, ErrEmptyContent
	}
	if g.Status == "" {
		g.Status = GoalActive
	}
	if !ValidGoalStatus(g.Status) {
		return Goal{}, fmt.Errorf("%w: %q", ErrInvalidStatus, g.Status)
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.CreatedAt = s.stamp(g.CreatedAt)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO goals (id, user_id, title, description, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		g.ID, g.UserID, g.Title, g.Description, g.Status, g.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to insert goal: %w", err)
	}
	return g, nil
}

// SetGoalStatus changes the status of one of the user's goals.
func (s *Store) SetGoalStatus(ctx context.Context, userID, id, status string) error {
	if !ValidGoalStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE goals SET status = ? WHERE user_id = ? AND id = ?",
		status, userID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return requireAffected(res.RowsAffected())
}

// DeleteGoal removes one of the user's goals.
func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM goals WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return requireAffected(res.RowsAffected())
}

// ListGoals returns the user's goals, newest first. An empty status lists all.
func (s *Store) ListGoals(ctx context.Context, userID, status string) ([]Goal, error) {
	if status != "" && !ValidGoalStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	query := "SELECT id, user_id, title, description, status, created_at FROM goals WHERE user_id = ?"
	args := []any{userID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, seq DESC"

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	goals := []Goal{}
	for rows.Next() {
		var g Goal
		var created int64
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.Status, &created); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		g.CreatedAt = fromUnixNano(created)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func requireAffected(n int64, err error) error {
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
