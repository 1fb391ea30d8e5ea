package activity

import "errors"

// Sentinel errors returned by Service and Store implementations.
var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrForbidden         = errors.New("admin role required")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrEmptyActivityType = errors.New("activity type must not be empty")
	ErrInvalidDate       = errors.New("invalid activity date")
	ErrActivityNotFound  = errors.New("activity not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidTarget     = errors.New("daily target must be a positive number")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrInvalidFootprint  = errors.New("activity details do not yield a finite footprint")
)
