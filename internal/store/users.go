package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rshade/ecoquest/internal/activity"
)

const userColumns = `id, email, username, total_carbon_kg, total_points, daily_target_kg, created_at`

// EnsureUser implements activity.Store.
func (s *Store) EnsureUser(ctx context.Context, u activity.User) (activity.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.DailyTargetKg <= 0 {
		u.DailyTargetKg = 10
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO users (id, email, username, daily_target_kg, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	email = CASE WHEN excluded.email <> '' THEN excluded.email ELSE users.email END,
	username = CASE WHEN excluded.username <> '' THEN excluded.username ELSE users.username END`,
		u.ID, u.Email, u.Username, u.DailyTargetKg, formatTime(u.CreatedAt),
	)
	if err != nil {
		return activity.User{}, fmt.Errorf("upserting user %s: %w", u.ID, err)
	}
	return s.GetUser(ctx, u.ID)
}

// GetUser implements activity.Store.
func (s *Store) GetUser(ctx context.Context, id string) (activity.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return activity.User{}, fmt.Errorf("%w: %s", activity.ErrUserNotFound, id)
	}
	return u, err
}

// ListUsers implements activity.Store.
func (s *Store) ListUsers(ctx context.Context) ([]activity.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var out []activity.User
	for rows.Next() {
		u, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SetDailyTarget implements activity.Store.
func (s *Store) SetDailyTarget(ctx context.Context, userID string, kg float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET daily_target_kg = ? WHERE id = ?`, kg, userID)
	if err != nil {
		return fmt.Errorf("setting daily target: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", activity.ErrUserNotFound, userID)
	}
	return nil
}

// Stats implements activity.Store.
func (s *Store) Stats(ctx context.Context) (activity.Stats, error) {
	var st activity.Stats
	err := s.db.QueryRowContext(ctx, `
SELECT
	(SELECT count(*) FROM users),
	(SELECT count(*) FROM activities),
	(SELECT coalesce(round(sum(total_carbon_kg), 2), 0) FROM users),
	(SELECT coalesce(sum(total_points), 0) FROM users)`,
	).Scan(&st.Users, &st.Activities, &st.TotalCarbonKg, &st.TotalPoints)
	if err != nil {
		return activity.Stats{}, fmt.Errorf("reading stats: %w", err)
	}
	return st, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (activity.User, error) {
	var (
		u       activity.User
		created string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.TotalCarbonKg, &u.TotalPoints,
		&u.DailyTargetKg, &created); err != nil {
		return activity.User{}, err
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
