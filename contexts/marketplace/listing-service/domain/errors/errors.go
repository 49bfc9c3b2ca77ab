package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrListingNotFound   = errors.New("listing not found")
	ErrInvalidListing    = errors.New("invalid listing data")
	ErrUnsupportedKind   = errors.New("unsupported listing kind")
	ErrReasonRequired    = errors.New("rejection reason is required")
	ErrForbidden         = errors.New("admin role is required")
	ErrOwnerRequired     = errors.New("owner id is required")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrScheduleClosed    = errors.New("posting schedule is closed")
	ErrQuotaExceeded     = errors.New("daily listing quota exceeded")
)

// TransitionError names both the current status and the rejected event, so
// an invalid transition is never reported as a bare failure or silently
// no-opped.
type TransitionError struct {
	Status string
	Event  string
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a listing in status %q", e.Event, e.Status)
}

func (e TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ScheduleClosedError carries the next opening instant so clients can render
// a countdown instead of a flat denial message.
type ScheduleClosedError struct {
	NextAllowedAt *time.Time
}

func (e ScheduleClosedError) Error() string {
	if e.NextAllowedAt == nil {
		return "posting schedule is closed with no upcoming window"
	}
	return fmt.Sprintf("posting schedule is closed until %s", e.NextAllowedAt.UTC().Format(time.RFC3339))
}

func (e ScheduleClosedError) Unwrap() error {
	return ErrScheduleClosed
}

// QuotaExceededError carries the counter state behind a quota denial.
type QuotaExceededError struct {
	Current   int
	Limit     int
	Remaining int
}

func (e QuotaExceededError) Error() string {
	return fmt.Sprintf("daily listing quota exceeded (%d of %d used)", e.Current, e.Limit)
}

func (e QuotaExceededError) Unwrap() error {
	return ErrQuotaExceeded
}
