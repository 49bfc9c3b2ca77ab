package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"bazar/contexts/marketplace/listing-service/domain/entities"
	domainerrors "bazar/contexts/marketplace/listing-service/domain/errors"
	"bazar/contexts/marketplace/listing-service/ports"
)

type Store struct {
	mu       sync.RWMutex
	listings map[string]entities.Listing
	sequence uint64
}

func NewStore(seed []entities.Listing) *Store {
	listings := make(map[string]entities.Listing, len(seed))
	for _, listing := range seed {
		listings[listing.ListingID] = listing
	}
	return &Store{listings: listings}
}

func (s *Store) Create(ctx context.Context, listing entities.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[listing.ListingID] = listing
	return nil
}

func (s *Store) Get(ctx context.Context, listingID string) (entities.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	listing, ok := s.listings[listingID]
	if !ok {
		return entities.Listing{}, domainerrors.ErrListingNotFound
	}
	return listing, nil
}

func (s *Store) Update(ctx context.Context, listing entities.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[listing.ListingID]; !ok {
		return domainerrors.ErrListingNotFound
	}
	s.listings[listing.ListingID] = listing
	return nil
}

func (s *Store) Delete(ctx context.Context, listingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[listingID]; !ok {
		return domainerrors.ErrListingNotFound
	}
	delete(s.listings, listingID)
	return nil
}

func (s *Store) List(ctx context.Context, filter ports.ListFilter) ([]entities.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Listing, 0, len(s.listings))
	for _, listing := range s.listings {
		if filter.OwnerID != "" && listing.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Kind != "" && !strings.EqualFold(string(listing.Kind), filter.Kind) {
			continue
		}
		if filter.Status != "" && !strings.EqualFold(string(listing.Status), filter.Status) {
			continue
		}
		items = append(items, listing)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ListingID < items[j].ListingID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if filter.Offset >= len(items) {
		return []entities.Listing{}, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > len(items) {
		end = len(items)
	}
	return append([]entities.Listing(nil), items[filter.Offset:end]...), nil
}

func (s *Store) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired int64
	for id, listing := range s.listings {
		if listing.Status != entities.StatusApproved {
			continue
		}
		if listing.ExpiresAt == nil || listing.ExpiresAt.After(now) {
			continue
		}
		listing.Status = entities.StatusExpired
		listing.UpdatedAt = now.UTC()
		s.listings[id] = listing
		expired++
	}
	return expired, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("listing-%d", atomic.AddUint64(&s.sequence, 1)), nil
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
