package errors

import "errors"

var (
	ErrInvalidWindow    = errors.New("invalid schedule window")
	ErrOvernightWindow  = errors.New("schedule window must not span midnight")
	ErrDuplicateWeekday = errors.New("at most one schedule window per weekday")
	ErrInvalidLimit     = errors.New("daily limit must be a positive integer")
	ErrInvalidUserID    = errors.New("user id is required")
	ErrForbidden        = errors.New("admin role is required")
)
