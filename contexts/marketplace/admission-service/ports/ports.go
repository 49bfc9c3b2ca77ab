package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

// ScheduleWindow is one posting window scoped to a weekday.
// Start/End are minutes from midnight; windows never span midnight.
type ScheduleWindow struct {
	Weekday     int // 0 (Sunday) .. 6 (Saturday)
	StartMinute int
	EndMinute   int
	Active      bool
	UpdatedAt   time.Time
}

// QuotaLimit is the current daily creation limit.
// Exactly one limit is current at a time; history is kept by version.
type QuotaLimit struct {
	Version    int
	DailyLimit int
	UpdatedAt  time.Time
}

type ScheduleDecision struct {
	Allowed       bool
	NextAllowedAt *time.Time
}

type QuotaDecision struct {
	CanPost   bool
	Current   int
	Limit     int
	Remaining int
}

type AdmissionResult struct {
	Allowed       bool
	Reason        string // "", "schedule" or "quota"
	NextAllowedAt *time.Time
	Quota         QuotaDecision
}

type Actor struct {
	UserID string
	Role   string
}

type ScheduleStore interface {
	Windows(ctx context.Context) ([]ScheduleWindow, error)
	ReplaceWindows(ctx context.Context, windows []ScheduleWindow) error
}

type QuotaConfigStore interface {
	ActiveLimit(ctx context.Context) (QuotaLimit, bool, error)
	SetLimit(ctx context.Context, dailyLimit int, now time.Time) (QuotaLimit, error)
}

// QuotaCounterStore holds per-(user, day) creation counters.
// Increment must be a single atomic upsert; two concurrent calls for the
// same key must both land (no lost update).
type QuotaCounterStore interface {
	CountFor(ctx context.Context, userID string, day string) (int, error)
	Increment(ctx context.Context, userID string, day string) (int, error)
	ResetFor(ctx context.Context, userID string, day string) error
	DeleteBefore(ctx context.Context, cutoffDay string) (int64, error)
}
