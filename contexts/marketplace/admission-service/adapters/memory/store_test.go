package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"bazar/contexts/marketplace/admission-service/ports"
)

func TestIncrementIsSafeUnderConcurrency(t *testing.T) {
	store := NewStore()
	const workers = 64

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := store.Increment(context.Background(), "user-1", "2026-02-02"); err != nil {
				t.Errorf("increment failed: %v", err)
			}
		}()
	}
	wg.Wait()

	count, err := store.CountFor(context.Background(), "user-1", "2026-02-02")
	if err != nil {
		t.Fatalf("count lookup failed: %v", err)
	}
	if count != workers {
		t.Fatalf("expected counter %d after %d increments, got %d", workers, workers, count)
	}
}

func TestReplaceWindowsSwapsWholeSchedule(t *testing.T) {
	store := NewStore()

	initial := []ports.ScheduleWindow{
		{Weekday: 1, StartMinute: 9 * 60, EndMinute: 18 * 60, Active: true},
		{Weekday: 3, StartMinute: 9 * 60, EndMinute: 18 * 60, Active: true},
	}
	if err := store.ReplaceWindows(context.Background(), initial); err != nil {
		t.Fatalf("initial replace failed: %v", err)
	}

	replacement := []ports.ScheduleWindow{
		{Weekday: 5, StartMinute: 10 * 60, EndMinute: 16 * 60, Active: true},
	}
	if err := store.ReplaceWindows(context.Background(), replacement); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	windows, err := store.Windows(context.Background())
	if err != nil {
		t.Fatalf("windows lookup failed: %v", err)
	}
	if len(windows) != 1 || windows[0].Weekday != 5 {
		t.Fatalf("expected only the replacement window, got %+v", windows)
	}
}

func TestActiveLimitReturnsNewestVersion(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, time.February, 2, 9, 0, 0, 0, time.UTC)

	if _, _, err := store.ActiveLimit(context.Background()); err != nil {
		t.Fatalf("empty active limit lookup failed: %v", err)
	}
	if _, found, _ := store.ActiveLimit(context.Background()); found {
		t.Fatal("expected no active limit before any SetLimit")
	}

	if _, err := store.SetLimit(context.Background(), 10, now); err != nil {
		t.Fatalf("first set limit failed: %v", err)
	}
	second, err := store.SetLimit(context.Background(), 25, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("second set limit failed: %v", err)
	}

	active, found, err := store.ActiveLimit(context.Background())
	if err != nil || !found {
		t.Fatalf("active limit lookup failed: found=%v err=%v", found, err)
	}
	if active.DailyLimit != 25 || active.Version != second.Version {
		t.Fatalf("expected newest limit to be active, got %+v", active)
	}
}

func TestDeleteBeforePrunesOnlyOlderDays(t *testing.T) {
	store := NewStore()

	days := []string{"2026-01-01", "2026-01-15", "2026-02-02"}
	for _, day := range days {
		if _, err := store.Increment(context.Background(), "user-1", day); err != nil {
			t.Fatalf("increment for %s failed: %v", day, err)
		}
	}

	pruned, err := store.DeleteBefore(context.Background(), "2026-01-20")
	if err != nil {
		t.Fatalf("delete before failed: %v", err)
	}
	if pruned != 2 {
		t.Fatalf("expected 2 pruned rows, got %d", pruned)
	}

	count, err := store.CountFor(context.Background(), "user-1", "2026-02-02")
	if err != nil {
		t.Fatalf("count lookup failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected recent counter untouched, got %d", count)
	}
}
