package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	domainerrors "bazar/contexts/marketplace/admission-service/domain/errors"
	"bazar/contexts/marketplace/admission-service/ports"
)

const (
	RoleAdmin = "admin"

	DenialReasonSchedule = "schedule"
	DenialReasonQuota    = "quota"

	dayLayout     = "2006-01-02"
	minutesPerDay = 24 * 60
)

// Service is the admission controller: it composes the schedule gate and the
// quota gate into one admit/deny decision, and owns the admin surface for
// both configurations.
type Service struct {
	Schedule ports.ScheduleStore
	Config   ports.QuotaConfigStore
	Counters ports.QuotaCounterStore
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (s Service) scheduleGate() ScheduleGate {
	return ScheduleGate{Schedule: s.Schedule}
}

func (s Service) quotaGate() QuotaGate {
	return QuotaGate{Config: s.Config, Counters: s.Counters}
}

// Admit gates listing creation. Admins bypass both gates so staff moderation
// and testing are never blocked. The schedule gate is evaluated first; the
// quota gate is only consulted while posting is open.
func (s Service) Admit(ctx context.Context, actor ports.Actor, now time.Time) (ports.AdmissionResult, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return ports.AdmissionResult{}, domainerrors.ErrInvalidUserID
	}
	if actor.Role == RoleAdmin {
		return ports.AdmissionResult{Allowed: true}, nil
	}

	schedule, err := s.scheduleGate().Evaluate(ctx, now)
	if err != nil {
		return ports.AdmissionResult{}, err
	}
	if !schedule.Allowed {
		return ports.AdmissionResult{
			Reason:        DenialReasonSchedule,
			NextAllowedAt: schedule.NextAllowedAt,
		}, nil
	}

	quota, err := s.quotaGate().Check(ctx, actor.UserID, DayOf(now))
	if err != nil {
		return ports.AdmissionResult{}, err
	}
	if !quota.CanPost {
		return ports.AdmissionResult{Reason: DenialReasonQuota, Quota: quota}, nil
	}
	return ports.AdmissionResult{Allowed: true, Quota: quota}, nil
}

// RecordCreation books one successful creation against the caller's daily
// counter. It runs after persistence succeeded, never before.
func (s Service) RecordCreation(ctx context.Context, userID string, now time.Time) (int, error) {
	count, err := s.quotaGate().Record(ctx, userID, DayOf(now))
	if err != nil {
		return 0, err
	}
	ResolveLogger(s.Logger).Debug("daily quota counter incremented",
		"event", "admission_quota_recorded",
		"module", "marketplace/admission-service",
		"layer", "application",
		"user_id", userID,
		"count", count,
	)
	return count, nil
}

// DailyUsage reports the caller's own counter state for today.
func (s Service) DailyUsage(ctx context.Context, actor ports.Actor) (ports.QuotaDecision, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return ports.QuotaDecision{}, domainerrors.ErrInvalidUserID
	}
	return s.quotaGate().Check(ctx, actor.UserID, DayOf(s.now()))
}

// PostingStatus exposes the schedule decision for the current instant, so
// clients can render a countdown when posting is closed.
func (s Service) PostingStatus(ctx context.Context) (ports.ScheduleDecision, error) {
	return s.scheduleGate().Evaluate(ctx, s.now())
}

func (s Service) Windows(ctx context.Context) ([]ports.ScheduleWindow, error) {
	windows, err := s.Schedule.Windows(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Weekday < windows[j].Weekday })
	return windows, nil
}

// ReplaceWindows swaps the full posting schedule. Overnight windows
// (start >= end) are rejected here instead of being mis-evaluated later by
// the gate, and each weekday may carry at most one window.
func (s Service) ReplaceWindows(ctx context.Context, actor ports.Actor, windows []ports.ScheduleWindow) error {
	if actor.Role != RoleAdmin {
		return domainerrors.ErrForbidden
	}
	seen := make(map[int]bool, len(windows))
	now := s.now()
	for i := range windows {
		window := &windows[i]
		if window.Weekday < 0 || window.Weekday > 6 {
			return domainerrors.ErrInvalidWindow
		}
		if window.StartMinute < 0 || window.EndMinute > minutesPerDay {
			return domainerrors.ErrInvalidWindow
		}
		if window.StartMinute >= window.EndMinute {
			return domainerrors.ErrOvernightWindow
		}
		if seen[window.Weekday] {
			return domainerrors.ErrDuplicateWeekday
		}
		seen[window.Weekday] = true
		window.UpdatedAt = now
	}
	if err := s.Schedule.ReplaceWindows(ctx, windows); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("posting schedule replaced",
		"event", "admission_schedule_replaced",
		"module", "marketplace/admission-service",
		"layer", "application",
		"admin_id", actor.UserID,
		"window_count", len(windows),
	)
	return nil
}

// QuotaLimit returns the current limit, falling back to the documented
// default when none was ever configured.
func (s Service) QuotaLimit(ctx context.Context) (ports.QuotaLimit, error) {
	limit, found, err := s.Config.ActiveLimit(ctx)
	if err != nil {
		return ports.QuotaLimit{}, err
	}
	if !found {
		return ports.QuotaLimit{DailyLimit: DefaultDailyLimit}, nil
	}
	return limit, nil
}

// SetQuotaLimit appends a new limit version; the newest version is the only
// current one, so two concurrent admin edits can never leave two limits
// active at once.
func (s Service) SetQuotaLimit(ctx context.Context, actor ports.Actor, dailyLimit int) (ports.QuotaLimit, error) {
	if actor.Role != RoleAdmin {
		return ports.QuotaLimit{}, domainerrors.ErrForbidden
	}
	if dailyLimit <= 0 {
		return ports.QuotaLimit{}, domainerrors.ErrInvalidLimit
	}
	limit, err := s.Config.SetLimit(ctx, dailyLimit, s.now())
	if err != nil {
		return ports.QuotaLimit{}, err
	}
	ResolveLogger(s.Logger).Info("daily quota limit replaced",
		"event", "admission_quota_limit_replaced",
		"module", "marketplace/admission-service",
		"layer", "application",
		"admin_id", actor.UserID,
		"daily_limit", limit.DailyLimit,
		"version", limit.Version,
	)
	return limit, nil
}

// ResetUserCount zeroes one user's counter for today. This is the only path
// that ever lowers a counter.
func (s Service) ResetUserCount(ctx context.Context, actor ports.Actor, userID string) error {
	if actor.Role != RoleAdmin {
		return domainerrors.ErrForbidden
	}
	if strings.TrimSpace(userID) == "" {
		return domainerrors.ErrInvalidUserID
	}
	if err := s.Counters.ResetFor(ctx, userID, DayOf(s.now())); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("daily quota counter reset",
		"event", "admission_quota_counter_reset",
		"module", "marketplace/admission-service",
		"layer", "application",
		"admin_id", actor.UserID,
		"user_id", userID,
	)
	return nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// DayOf buckets an instant into its calendar day; counters are keyed by day,
// so a new day naturally starts a fresh row.
func DayOf(t time.Time) string {
	return t.Format(dayLayout)
}
