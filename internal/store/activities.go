package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/ecoquest/internal/activity"
)

const activitySelect = `
SELECT a.id, a.user_id, a.category_id, c.name, a.activity_type, a.activity_date,
	a.carbon_kg, a.points, a.details_json, a.created_at
FROM activities a
JOIN categories c ON c.id = a.category_id`

// InsertActivity implements activity.Store.
func (s *Store) InsertActivity(ctx context.Context, a activity.Activity) error {
	details, err := json.Marshal(a.Details)
	if err != nil {
		return fmt.Errorf("encoding details: %w", err)
	}
	if a.Details == nil {
		details = []byte("{}")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `
INSERT INTO activities (id, user_id, category_id, activity_type, activity_date, carbon_kg, points,
	details_json, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.CategoryID, a.ActivityType, a.Date, a.CarbonKg, a.Points,
		string(details), formatTime(a.CreatedAt),
	); err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}

	if err = adjustTotals(ctx, tx, a.UserID, a.CarbonKg, a.Points); err != nil {
		return err
	}
	return tx.Commit()
}

// ListActivities implements activity.Store.
func (s *Store) ListActivities(ctx context.Context, userID, from, to string) ([]activity.Activity, error) {
	var (
		where = []string{"a.user_id = ?"}
		args  = []any{userID}
	)
	if from != "" {
		where = append(where, "a.activity_date >= ?")
		args = append(args, from)
	}
	if to != "" {
		where = append(where, "a.activity_date <= ?")
		args = append(args, to)
	}

	query := activitySelect + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY a.activity_date DESC, a.created_at DESC, a.id DESC"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var out []activity.Activity
	for rows.Next() {
		a, scanErr := scanActivity(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteActivity implements activity.Store.
func (s *Store) DeleteActivity(ctx context.Context, userID, id string) (activity.Activity, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return activity.Activity{}, err
	}
	defer func() { _ = tx.Rollback() }()

	a, err := scanActivity(tx.QueryRowContext(ctx, activitySelect+` WHERE a.id = ? AND a.user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return activity.Activity{}, fmt.Errorf("%w: %s", activity.ErrActivityNotFound, id)
	}
	if err != nil {
		return activity.Activity{}, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id); err != nil {
		return activity.Activity{}, fmt.Errorf("deleting activity: %w", err)
	}
	if err = adjustTotals(ctx, tx, userID, -a.CarbonKg, -a.Points); err != nil {
		return activity.Activity{}, err
	}
	return a, tx.Commit()
}

// adjustTotals folds a delta into the user's running totals. Totals are kept
// at two decimals and never drop below zero.
func adjustTotals(ctx context.Context, tx *sql.Tx, userID string, kg float64, points int) error {
	res, err := tx.ExecContext(ctx, `
UPDATE users SET
	total_carbon_kg = max(0, round(total_carbon_kg + ?, 2)),
	total_points = max(0, total_points + ?)
WHERE id = ?`, kg, points, userID)
	if err != nil {
		return fmt.Errorf("updating totals: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", activity.ErrUserNotFound, userID)
	}
	return nil
}

func scanActivity(row scanner) (activity.Activity, error) {
	var (
		a       activity.Activity
		details string
		created string
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.CategoryID, &a.CategoryName, &a.ActivityType, &a.Date,
		&a.CarbonKg, &a.Points, &details, &created); err != nil {
		return activity.Activity{}, err
	}
	if err := json.Unmarshal([]byte(details), &a.Details); err != nil {
		return activity.Activity{}, fmt.Errorf("decoding details of %s: %w", a.ID, err)
	}
	if a.Details == nil {
		a.Details = map[string]any{}
	}
	a.CreatedAt = parseTime(created)
	return a, nil
}
