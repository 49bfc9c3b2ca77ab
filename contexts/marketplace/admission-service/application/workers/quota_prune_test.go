package workers

import (
	"context"
	"errors"
	"testing"
	"time"
)

type pruneStoreFake struct {
	cutoff string
	pruned int64
	err    error
}

func (f *pruneStoreFake) CountFor(ctx context.Context, userID string, day string) (int, error) {
	return 0, nil
}

func (f *pruneStoreFake) Increment(ctx context.Context, userID string, day string) (int, error) {
	return 0, nil
}

func (f *pruneStoreFake) ResetFor(ctx context.Context, userID string, day string) error {
	return nil
}

func (f *pruneStoreFake) DeleteBefore(ctx context.Context, cutoffDay string) (int64, error) {
	f.cutoff = cutoffDay
	return f.pruned, f.err
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestQuotaResetSweeperUsesRetentionCutoff(t *testing.T) {
	store := &pruneStoreFake{pruned: 4}
	sweeper := QuotaResetSweeper{
		Counters:      store,
		Clock:         fixedClock{now: time.Date(2026, time.February, 2, 3, 0, 0, 0, time.UTC)},
		RetentionDays: 30,
	}

	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if store.cutoff != "2026-01-03" {
		t.Fatalf("expected cutoff 2026-01-03 for 30-day retention, got %q", store.cutoff)
	}
}

func TestQuotaResetSweeperDefaultsRetention(t *testing.T) {
	store := &pruneStoreFake{}
	sweeper := QuotaResetSweeper{
		Counters: store,
		Clock:    fixedClock{now: time.Date(2026, time.February, 2, 3, 0, 0, 0, time.UTC)},
	}

	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if store.cutoff != "2026-01-03" {
		t.Fatalf("expected default 30-day retention, got cutoff %q", store.cutoff)
	}
}

func TestQuotaResetSweeperPropagatesStoreError(t *testing.T) {
	wantErr := errors.New("connection reset")
	sweeper := QuotaResetSweeper{
		Counters: &pruneStoreFake{err: wantErr},
		Clock:    fixedClock{now: time.Date(2026, time.February, 2, 3, 0, 0, 0, time.UTC)},
	}

	if err := sweeper.RunOnce(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
}
