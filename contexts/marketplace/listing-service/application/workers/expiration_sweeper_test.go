package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"bazar/contexts/marketplace/listing-service/domain/entities"
	"bazar/contexts/marketplace/listing-service/ports"
)

type sweepRepoFake struct {
	lastNow time.Time
	expired int64
	err     error
	runs    int
}

func (r *sweepRepoFake) Create(ctx context.Context, listing entities.Listing) error { return nil }
func (r *sweepRepoFake) Get(ctx context.Context, listingID string) (entities.Listing, error) {
	return entities.Listing{}, nil
}
func (r *sweepRepoFake) Update(ctx context.Context, listing entities.Listing) error { return nil }
func (r *sweepRepoFake) Delete(ctx context.Context, listingID string) error         { return nil }
func (r *sweepRepoFake) List(ctx context.Context, filter ports.ListFilter) ([]entities.Listing, error) {
	return nil, nil
}

func (r *sweepRepoFake) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	r.runs++
	r.lastNow = now
	return r.expired, r.err
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestExpirationSweeperPassesClockInstant(t *testing.T) {
	now := time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)
	repo := &sweepRepoFake{expired: 3}
	sweeper := ExpirationSweeper{Repo: repo, Clock: fixedClock{now: now}}

	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if !repo.lastNow.Equal(now) {
		t.Fatalf("expected sweep at %s, got %s", now, repo.lastNow)
	}
	if repo.runs != 1 {
		t.Fatalf("expected one sweep, got %d", repo.runs)
	}
}

func TestExpirationSweeperPropagatesRepoError(t *testing.T) {
	wantErr := errors.New("deadlock detected")
	sweeper := ExpirationSweeper{
		Repo:  &sweepRepoFake{err: wantErr},
		Clock: fixedClock{now: time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)},
	}

	if err := sweeper.RunOnce(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected repo error to surface, got %v", err)
	}
}
