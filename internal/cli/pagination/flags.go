package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Paging defaults and limits.
const (
	DefaultLimit  = 50
	MaxLimit      = 10000
	MaxPageSize   = 1000
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// Validation errors.
var (
	ErrInvalidLimit      = fmt.Errorf("limit must be between 0 and %d", MaxLimit)
	ErrInvalidPageSize   = fmt.Errorf("page-size must be between 1 and %d", MaxPageSize)
	ErrNegativeOffset    = errors.New("offset cannot be negative")
	ErrNegativePage      = errors.New("page cannot be negative")
	ErrMixedModes        = errors.New("page and offset parameters are mutually exclusive")
	ErrPageSizeNeedsPage = errors.New("page must be specified when using page-size")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'carbon:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// Params holds the paging flags of a list command. A zero Limit means no limit.
type Params struct {
	Limit    int
	Offset   int
	Page     int
	PageSize int
}

// Validate checks bounds and that only one paging mode is in use.
func (p Params) Validate() error {
	switch {
	case p.Limit < 0 || p.Limit > MaxLimit:
		return ErrInvalidLimit
	case p.Offset < 0:
		return ErrNegativeOffset
	case p.Page < 0:
		return ErrNegativePage
	case p.Page > 0 && p.Offset > 0:
		return ErrMixedModes
	case p.Page == 0 && p.PageSize > 0:
		return ErrPageSizeNeedsPage
	case p.Page > 0 && (p.PageSize < 1 || p.PageSize > MaxPageSize):
		return ErrInvalidPageSize
	}
	return nil
}

// IsPageBased reports whether page-based paging is active.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// OffsetLimit returns the effective offset and limit. A zero limit means all
// remaining items.
func (p Params) OffsetLimit() (int, int) {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize, p.PageSize
	}
	return p.Offset, p.Limit
}

// Apply returns the window of items selected by p. A page past the end yields
// the last page; an offset past the end yields nothing.
func Apply[T any](p Params, items []T) []T {
	if len(items) == 0 {
		return items
	}

	offset, limit := p.OffsetLimit()
	if p.IsPageBased() && offset >= len(items) {
		offset = ((len(items) - 1) / p.PageSize) * p.PageSize
	}
	if offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// ParseSort parses "field" or "field:order". The order defaults to def.
func ParseSort(expr, def string) (string, string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", "", ErrEmptySortField
	}

	parts := strings.Split(expr, ":")
	if len(parts) > 2 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
	}

	field := strings.TrimSpace(parts[0])
	if field == "" {
		return "", "", ErrEmptySortField
	}

	order := def
	if len(parts) == 2 {
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}
