package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"bazar/contexts/marketplace/admission-service/ports"
)

// Store is the in-memory adapter backing all admission ports. Increment
// mutates the counter map under one lock, mirroring the single-statement
// upsert of the postgres adapter.
type Store struct {
	mu sync.RWMutex

	windows  map[int]ports.ScheduleWindow
	limits   []ports.QuotaLimit
	counters map[counterKey]int
}

type counterKey struct {
	UserID string
	Day    string
}

func NewStore() *Store {
	return &Store{
		windows:  map[int]ports.ScheduleWindow{},
		counters: map[counterKey]int{},
	}
}

func (s *Store) Windows(ctx context.Context) ([]ports.ScheduleWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.ScheduleWindow, 0, len(s.windows))
	for _, window := range s.windows {
		items = append(items, window)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Weekday < items[j].Weekday })
	return items, nil
}

func (s *Store) ReplaceWindows(ctx context.Context, windows []ports.ScheduleWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = make(map[int]ports.ScheduleWindow, len(windows))
	for _, window := range windows {
		s.windows[window.Weekday] = window
	}
	return nil
}

func (s *Store) ActiveLimit(ctx context.Context) (ports.QuotaLimit, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.limits) == 0 {
		return ports.QuotaLimit{}, false, nil
	}
	return s.limits[len(s.limits)-1], true, nil
}

func (s *Store) SetLimit(ctx context.Context, dailyLimit int, now time.Time) (ports.QuotaLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	limit := ports.QuotaLimit{
		Version:    len(s.limits) + 1,
		DailyLimit: dailyLimit,
		UpdatedAt:  now.UTC(),
	}
	s.limits = append(s.limits, limit)
	return limit, nil
}

func (s *Store) CountFor(ctx context.Context, userID string, day string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[counterKey{UserID: userID, Day: day}], nil
}

func (s *Store) Increment(ctx context.Context, userID string, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := counterKey{UserID: userID, Day: day}
	s.counters[key]++
	return s.counters[key], nil
}

func (s *Store) ResetFor(ctx context.Context, userID string, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[counterKey{UserID: userID, Day: day}] = 0
	return nil
}

func (s *Store) DeleteBefore(ctx context.Context, cutoffDay string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pruned int64
	for key := range s.counters {
		if key.Day < cutoffDay {
			delete(s.counters, key)
			pruned++
		}
	}
	return pruned, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.ScheduleStore = (*Store)(nil)
var _ ports.QuotaConfigStore = (*Store)(nil)
var _ ports.QuotaCounterStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
