// Package activity implements the activity workflows: submitting, listing and
// deleting logged activities, and the per-user views built on top of them
// (garden, leaderboard, daily summary, insights and dashboard).
package activity

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format for Activity.Date.
const DateLayout = "2006-01-02"

// Session identifies the caller of a workflow. It is passed explicitly to
// every Service call.
type Session struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

// Validate returns ErrNotAuthenticated when no user is set.
func (s Session) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return ErrNotAuthenticated
	}
	return nil
}

// Category is a persisted activity category.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User is a persisted profile with running totals.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email,omitempty"`
	Username      string    `json:"username,omitempty"`
	TotalCarbonKg float64   `json:"total_carbon_kg"`
	TotalPoints   int       `json:"total_points"`
	DailyTargetKg float64   `json:"daily_target_kg"`
	CreatedAt     time.Time `json:"created_at"`
}

// Activity is one logged activity.
type Activity struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	CategoryID   int            `json:"category_id"`
	CategoryName string         `json:"category_name"`
	ActivityType string         `json:"activity_type"`
	Date         string         `json:"date"`
	CarbonKg     float64        `json:"carbon_kg"`
	Points       int            `json:"points"`
	Details      map[string]any `json:"details"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Stats aggregates the whole store.
type Stats struct {
	Users         int     `json:"users"`
	Activities    int     `json:"activities"`
	TotalCarbonKg float64 `json:"total_carbon_kg"`
	TotalPoints   int     `json:"total_points"`
}

// Store persists users, categories and activities.
type Store interface {
	// EnsureUser creates u when absent and returns the stored user. Profile
	// fields of an existing user are updated when u sets them.
	EnsureUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int) (Category, error)
	CreateCategory(ctx context.Context, name string) (Category, error)

	// InsertActivity stores a and adds its carbon and points to the owner's
	// totals in one transaction.
	InsertActivity(ctx context.Context, a Activity) error
	// ListActivities returns the user's activities dated within [from, to],
	// newest first. Empty bounds are open.
	ListActivities(ctx context.Context, userID, from, to string) ([]Activity, error)
	// DeleteActivity removes the activity and subtracts it from the owner's
	// totals, returning what was removed.
	DeleteActivity(ctx context.Context, userID, id string) (Activity, error)

	SetDailyTarget(ctx context.Context, userID string, kg float64) error
	Stats(ctx context.Context) (Stats, error)
}

// FindCategory looks ref up in cats by numeric ID or case-insensitive name.
func FindCategory(cats []Category, ref string) (Category, error) {
	ref = strings.TrimSpace(ref)
	id, idErr := strconv.Atoi(ref)

	names := make([]string, 0, len(cats))
	for _, c := range cats {
		if (idErr == nil && c.ID == id) || strings.EqualFold(c.Name, ref) {
			return c, nil
		}
		names = append(names, c.Name)
	}
	return Category{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownCategory, ref, strings.Join(names, ", "))
}
