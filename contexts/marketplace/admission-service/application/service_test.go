package application

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "bazar/contexts/marketplace/admission-service/domain/errors"
	"bazar/contexts/marketplace/admission-service/ports"
)

type scheduleFake struct {
	windows  []ports.ScheduleWindow
	replaced []ports.ScheduleWindow
}

func (s *scheduleFake) Windows(ctx context.Context) ([]ports.ScheduleWindow, error) {
	return s.windows, nil
}

func (s *scheduleFake) ReplaceWindows(ctx context.Context, windows []ports.ScheduleWindow) error {
	s.replaced = windows
	s.windows = windows
	return nil
}

type configFake struct {
	limit *ports.QuotaLimit
}

func (c *configFake) ActiveLimit(ctx context.Context) (ports.QuotaLimit, bool, error) {
	if c.limit == nil {
		return ports.QuotaLimit{}, false, nil
	}
	return *c.limit, true, nil
}

func (c *configFake) SetLimit(ctx context.Context, dailyLimit int, now time.Time) (ports.QuotaLimit, error) {
	version := 1
	if c.limit != nil {
		version = c.limit.Version + 1
	}
	limit := ports.QuotaLimit{Version: version, DailyLimit: dailyLimit, UpdatedAt: now}
	c.limit = &limit
	return limit, nil
}

type countersFake struct {
	counts map[string]int
}

func (c *countersFake) key(userID string, day string) string { return userID + "|" + day }

func (c *countersFake) CountFor(ctx context.Context, userID string, day string) (int, error) {
	return c.counts[c.key(userID, day)], nil
}

func (c *countersFake) Increment(ctx context.Context, userID string, day string) (int, error) {
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[c.key(userID, day)]++
	return c.counts[c.key(userID, day)], nil
}

func (c *countersFake) ResetFor(ctx context.Context, userID string, day string) error {
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[c.key(userID, day)] = 0
	return nil
}

func (c *countersFake) DeleteBefore(ctx context.Context, cutoffDay string) (int64, error) {
	return 0, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func window(weekday int, start int, end int) ports.ScheduleWindow {
	return ports.ScheduleWindow{Weekday: weekday, StartMinute: start, EndMinute: end, Active: true}
}

// 2026-02-02 is a Monday.
var monday9am = time.Date(2026, time.February, 2, 9, 0, 0, 0, time.UTC)

func TestScheduleGateMatchesHalfOpenInterval(t *testing.T) {
	gate := ScheduleGate{Schedule: &scheduleFake{windows: []ports.ScheduleWindow{window(1, 9*60, 18*60)}}}

	atStart, err := gate.Evaluate(context.Background(), monday9am)
	if err != nil {
		t.Fatalf("evaluate at window start failed: %v", err)
	}
	if !atStart.Allowed {
		t.Fatal("expected posting open at window start")
	}

	atEnd, err := gate.Evaluate(context.Background(), monday9am.Add(9*time.Hour))
	if err != nil {
		t.Fatalf("evaluate at window end failed: %v", err)
	}
	if atEnd.Allowed {
		t.Fatal("expected posting closed at 18:00, the end minute is exclusive")
	}
}

func TestScheduleGateNextOpeningLaterToday(t *testing.T) {
	gate := ScheduleGate{Schedule: &scheduleFake{windows: []ports.ScheduleWindow{window(1, 14*60, 18*60)}}}

	decision, err := gate.Evaluate(context.Background(), monday9am)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected posting closed before today's window")
	}
	want := time.Date(2026, time.February, 2, 14, 0, 0, 0, time.UTC)
	if decision.NextAllowedAt == nil || !decision.NextAllowedAt.Equal(want) {
		t.Fatalf("expected next opening %s, got %v", want, decision.NextAllowedAt)
	}
}

func TestScheduleGateWrapsToSameWeekdayNextWeek(t *testing.T) {
	gate := ScheduleGate{Schedule: &scheduleFake{windows: []ports.ScheduleWindow{window(1, 9*60, 18*60)}}}

	afterClose := monday9am.Add(10 * time.Hour) // Monday 19:00
	decision, err := gate.Evaluate(context.Background(), afterClose)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected posting closed after today's window")
	}
	want := monday9am.AddDate(0, 0, 7)
	if decision.NextAllowedAt == nil || !decision.NextAllowedAt.Equal(want) {
		t.Fatalf("expected next opening %s, got %v", want, decision.NextAllowedAt)
	}
}

func TestScheduleGateEmptyScheduleHasNoNextOpening(t *testing.T) {
	gate := ScheduleGate{Schedule: &scheduleFake{}}

	decision, err := gate.Evaluate(context.Background(), monday9am)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected posting closed with an empty schedule")
	}
	if decision.NextAllowedAt != nil {
		t.Fatalf("expected no next opening, got %v", decision.NextAllowedAt)
	}
}

func TestScheduleGateSkipsInactiveAndDegenerateRows(t *testing.T) {
	inactive := window(1, 0, 24*60)
	inactive.Active = false
	degenerate := window(2, 18*60, 9*60)
	gate := ScheduleGate{Schedule: &scheduleFake{windows: []ports.ScheduleWindow{inactive, degenerate}}}

	decision, err := gate.Evaluate(context.Background(), monday9am)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if decision.Allowed || decision.NextAllowedAt != nil {
		t.Fatalf("expected inactive and degenerate rows to never match, got %+v", decision)
	}
}

func TestQuotaGateDeniesAtConfiguredLimit(t *testing.T) {
	limit := ports.QuotaLimit{Version: 1, DailyLimit: 5}
	counters := &countersFake{counts: map[string]int{"user-1|2026-02-02": 5}}
	gate := QuotaGate{Config: &configFake{limit: &limit}, Counters: counters}

	decision, err := gate.Check(context.Background(), "user-1", "2026-02-02")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if decision.CanPost {
		t.Fatal("expected posting denied at the limit")
	}
	if decision.Current != 5 || decision.Limit != 5 || decision.Remaining != 0 {
		t.Fatalf("unexpected quota state: %+v", decision)
	}
}

func TestQuotaGateFallsBackToDefaultLimit(t *testing.T) {
	gate := QuotaGate{Config: &configFake{}, Counters: &countersFake{}}

	decision, err := gate.Check(context.Background(), "user-1", "2026-02-02")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !decision.CanPost || decision.Limit != DefaultDailyLimit || decision.Remaining != DefaultDailyLimit {
		t.Fatalf("expected default limit %d, got %+v", DefaultDailyLimit, decision)
	}
}

func newClosedExhaustedService() Service {
	limit := ports.QuotaLimit{Version: 1, DailyLimit: 1}
	return Service{
		Schedule: &scheduleFake{},
		Config:   &configFake{limit: &limit},
		Counters: &countersFake{counts: map[string]int{"user-1|2026-02-02": 1}},
		Clock:    fixedClock{now: monday9am},
	}
}

func TestAdmitAdminBypassesBothGates(t *testing.T) {
	service := newClosedExhaustedService()

	result, err := service.Admit(context.Background(), ports.Actor{UserID: "user-1", Role: RoleAdmin}, monday9am)
	if err != nil {
		t.Fatalf("admit failed: %v", err)
	}
	if !result.Allowed {
		t.Fatal("expected admin to bypass schedule and quota gates")
	}
}

func TestAdmitScheduleDenialTakesPrecedenceOverQuota(t *testing.T) {
	service := newClosedExhaustedService()

	result, err := service.Admit(context.Background(), ports.Actor{UserID: "user-1"}, monday9am)
	if err != nil {
		t.Fatalf("admit failed: %v", err)
	}
	if result.Allowed {
		t.Fatal("expected denial with a closed schedule")
	}
	if result.Reason != DenialReasonSchedule {
		t.Fatalf("expected schedule denial before quota, got %q", result.Reason)
	}
}

func TestAdmitQuotaDenialWhileScheduleOpen(t *testing.T) {
	limit := ports.QuotaLimit{Version: 1, DailyLimit: 2}
	service := Service{
		Schedule: &scheduleFake{windows: []ports.ScheduleWindow{window(1, 0, 24*60)}},
		Config:   &configFake{limit: &limit},
		Counters: &countersFake{counts: map[string]int{"user-1|2026-02-02": 2}},
		Clock:    fixedClock{now: monday9am},
	}

	result, err := service.Admit(context.Background(), ports.Actor{UserID: "user-1"}, monday9am)
	if err != nil {
		t.Fatalf("admit failed: %v", err)
	}
	if result.Allowed || result.Reason != DenialReasonQuota {
		t.Fatalf("expected quota denial, got %+v", result)
	}
	if result.Quota.Current != 2 || result.Quota.Limit != 2 || result.Quota.Remaining != 0 {
		t.Fatalf("unexpected quota state on denial: %+v", result.Quota)
	}
}

func TestAdmitRejectsBlankUser(t *testing.T) {
	service := newClosedExhaustedService()

	_, err := service.Admit(context.Background(), ports.Actor{UserID: "  "}, monday9am)
	if !errors.Is(err, domainerrors.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestReplaceWindowsRejectsOvernight(t *testing.T) {
	service := Service{Schedule: &scheduleFake{}, Clock: fixedClock{now: monday9am}}
	admin := ports.Actor{UserID: "admin-1", Role: RoleAdmin}

	err := service.ReplaceWindows(context.Background(), admin, []ports.ScheduleWindow{window(5, 22*60, 2*60)})
	if !errors.Is(err, domainerrors.ErrOvernightWindow) {
		t.Fatalf("expected ErrOvernightWindow for start>=end, got %v", err)
	}
}

func TestReplaceWindowsRejectsDuplicateWeekday(t *testing.T) {
	service := Service{Schedule: &scheduleFake{}, Clock: fixedClock{now: monday9am}}
	admin := ports.Actor{UserID: "admin-1", Role: RoleAdmin}

	err := service.ReplaceWindows(context.Background(), admin, []ports.ScheduleWindow{
		window(1, 9*60, 12*60),
		window(1, 14*60, 18*60),
	})
	if !errors.Is(err, domainerrors.ErrDuplicateWeekday) {
		t.Fatalf("expected ErrDuplicateWeekday, got %v", err)
	}
}

func TestReplaceWindowsRejectsInvalidWeekday(t *testing.T) {
	service := Service{Schedule: &scheduleFake{}, Clock: fixedClock{now: monday9am}}
	admin := ports.Actor{UserID: "admin-1", Role: RoleAdmin}

	err := service.ReplaceWindows(context.Background(), admin, []ports.ScheduleWindow{window(7, 9*60, 18*60)})
	if !errors.Is(err, domainerrors.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow for weekday 7, got %v", err)
	}
}

func TestReplaceWindowsRequiresAdmin(t *testing.T) {
	schedule := &scheduleFake{}
	service := Service{Schedule: schedule, Clock: fixedClock{now: monday9am}}

	err := service.ReplaceWindows(context.Background(), ports.Actor{UserID: "user-1"}, []ports.ScheduleWindow{window(1, 9*60, 18*60)})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if schedule.replaced != nil {
		t.Fatal("expected schedule untouched after forbidden replace")
	}
}

func TestSetQuotaLimitValidatesAndVersions(t *testing.T) {
	config := &configFake{}
	service := Service{Config: config, Clock: fixedClock{now: monday9am}}
	admin := ports.Actor{UserID: "admin-1", Role: RoleAdmin}

	if _, err := service.SetQuotaLimit(context.Background(), admin, 0); !errors.Is(err, domainerrors.ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit for zero, got %v", err)
	}
	if _, err := service.SetQuotaLimit(context.Background(), ports.Actor{UserID: "user-1"}, 10); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}

	first, err := service.SetQuotaLimit(context.Background(), admin, 10)
	if err != nil {
		t.Fatalf("set limit failed: %v", err)
	}
	second, err := service.SetQuotaLimit(context.Background(), admin, 20)
	if err != nil {
		t.Fatalf("second set limit failed: %v", err)
	}
	if second.Version <= first.Version {
		t.Fatalf("expected version to advance, got %d then %d", first.Version, second.Version)
	}

	current, err := service.QuotaLimit(context.Background())
	if err != nil {
		t.Fatalf("quota limit lookup failed: %v", err)
	}
	if current.DailyLimit != 20 {
		t.Fatalf("expected newest version to win, got limit %d", current.DailyLimit)
	}
}

func TestResetUserCountRequiresAdminAndValidUser(t *testing.T) {
	counters := &countersFake{counts: map[string]int{"user-1|2026-02-02": 3}}
	service := Service{Counters: counters, Clock: fixedClock{now: monday9am}}
	admin := ports.Actor{UserID: "admin-1", Role: RoleAdmin}

	if err := service.ResetUserCount(context.Background(), ports.Actor{UserID: "user-1"}, "user-1"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := service.ResetUserCount(context.Background(), admin, " "); !errors.Is(err, domainerrors.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}

	if err := service.ResetUserCount(context.Background(), admin, "user-1"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if counters.counts["user-1|2026-02-02"] != 0 {
		t.Fatalf("expected counter zeroed, got %d", counters.counts["user-1|2026-02-02"])
	}
}

func TestRecordCreationIncrementsCounter(t *testing.T) {
	counters := &countersFake{}
	service := Service{Counters: counters, Clock: fixedClock{now: monday9am}}

	count, err := service.RecordCreation(context.Background(), "user-1", monday9am)
	if err != nil {
		t.Fatalf("record creation failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	count, err = service.RecordCreation(context.Background(), "user-1", monday9am)
	if err != nil {
		t.Fatalf("second record creation failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}
