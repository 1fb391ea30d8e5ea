package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/rshade/ecoquest/internal/activity"
)

// ListCategories implements activity.Store.
func (s *Store) ListCategories(ctx context.Context) ([]activity.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []activity.Category
	for rows.Next() {
		var c activity.Category
		if err = rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCategory implements activity.Store.
func (s *Store) GetCategory(ctx context.Context, id int) (activity.Category, error) {
	c := activity.Category{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM categories WHERE id = ?`, id).Scan(&c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return activity.Category{}, fmt.Errorf("%w: id %d", activity.ErrUnknownCategory, id)
	}
	if err != nil {
		return activity.Category{}, fmt.Errorf("reading category %d: %w", id, err)
	}
	return c, nil
}

// CreateCategory implements activity.Store.
func (s *Store) CreateCategory(ctx context.Context, name string) (activity.Category, error) {
	name = strings.TrimSpace(name)
	res, err := s.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return activity.Category{}, fmt.Errorf("%w: %s", activity.ErrDuplicateCategory, name)
		}
		return activity.Category{}, fmt.Errorf("creating category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return activity.Category{}, err
	}
	return activity.Category{ID: int(id), Name: name}, nil
}
