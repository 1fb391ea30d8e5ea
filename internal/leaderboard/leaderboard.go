// Package leaderboard ranks users by points or by carbon.
package leaderboard

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// SortBy selects the ranking metric.
type SortBy string

// Ranking metrics.
const (
	SortByPoints SortBy = "points"
	SortByCarbon SortBy = "carbon"
)

// ErrInvalidSort reports an unrecognized sort metric.
type ErrInvalidSort struct {
	Value string
}

func (e ErrInvalidSort) Error() string {
	return fmt.Sprintf("invalid leaderboard sort %q (want points or carbon)", e.Value)
}

// ParseSortBy parses a metric name. Empty means points.
func ParseSortBy(s string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SortByPoints):
		return SortByPoints, nil
	case string(SortByCarbon):
		return SortByCarbon, nil
	default:
		return "", ErrInvalidSort{Value: s}
	}
}

// Entry is one user's standing.
type Entry struct {
	Rank          int     `json:"rank"`
	UserID        string  `json:"user_id"`
	Username      string  `json:"username"`
	TotalPoints   int     `json:"total_points"`
	TotalCarbonKg float64 `json:"total_carbon_kg"`
}

// DisplayName returns the username or a placeholder.
func (e Entry) DisplayName() string {
	if strings.TrimSpace(e.Username) == "" {
		return "Anonymous User"
	}
	return e.Username
}

// Board is a ranked leaderboard.
type Board struct {
	SortBy     SortBy  `json:"sort_by"`
	Entries    []Entry `json:"entries"`
	UserRank   int     `json:"user_rank"`
	TopPercent int     `json:"top_percent,omitempty"`
}

// Build ranks entries descending by the metric. Ties keep a deterministic
// order by username and then user ID. UserRank is 0 when userID is absent.
func Build(entries []Entry, sortBy SortBy, userID string) Board {
	ranked := slices.Clone(entries)
	slices.SortStableFunc(ranked, func(a, b Entry) int {
		var c int
		if sortBy == SortByCarbon {
			c = cmp.Compare(b.TotalCarbonKg, a.TotalCarbonKg)
		} else {
			c = cmp.Compare(b.TotalPoints, a.TotalPoints)
		}
		if c != 0 {
			return c
		}
		if c = cmp.Compare(a.Username, b.Username); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})

	board := Board{SortBy: sortBy, Entries: ranked}
	for i := range ranked {
		ranked[i].Rank = i + 1
		if userID != "" && ranked[i].UserID == userID {
			board.UserRank = i + 1
		}
	}
	if board.UserRank > 0 {
		board.TopPercent = int(math.Ceil(float64(board.UserRank) / float64(len(ranked)) * 100))
	}
	return board
}

// Top returns at most n entries from the head of the board.
func (b Board) Top(n int) []Entry {
	if n <= 0 || n >= len(b.Entries) {
		return b.Entries
	}
	return b.Entries[:n]
}
