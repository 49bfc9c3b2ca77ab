package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bazar/contexts/marketplace/listing-service/domain/entities"
	domainerrors "bazar/contexts/marketplace/listing-service/domain/errors"
	"bazar/contexts/marketplace/listing-service/ports"
)

const RoleAdmin = "admin"

type CreateListingInput struct {
	Kind         string
	Title        string
	Description  string
	Price        float64
	DurationDays int
}

// Service owns the listing lifecycle state machine. Rows are only ever
// mutated through the named transitions here; admin moderation calls bypass
// the admission gates (creation admission is not moderation).
type Service struct {
	Repo                 ports.Repository
	Admission            ports.AdmissionPort
	Notifier             ports.Notifier
	Clock                ports.Clock
	IDs                  ports.IDGenerator
	DefaultDurationDays  int
	ReapprovalWindowDays int
	Logger               *slog.Logger
}

// Create admits the request through schedule and quota gates, persists the
// listing in pending, and only then books the quota counter, so a failed
// creation never consumes quota.
func (s Service) Create(ctx context.Context, actor ports.Actor, input CreateListingInput) (entities.Listing, error) {
	ownerID := strings.TrimSpace(actor.UserID)
	if ownerID == "" {
		return entities.Listing{}, domainerrors.ErrOwnerRequired
	}
	kind := entities.ListingKind(strings.TrimSpace(strings.ToLower(input.Kind)))
	if !kind.Valid() {
		return entities.Listing{}, domainerrors.ErrUnsupportedKind
	}
	if strings.TrimSpace(input.Title) == "" {
		return entities.Listing{}, domainerrors.ErrInvalidListing
	}
	if input.Price < 0 || input.DurationDays < 0 {
		return entities.Listing{}, domainerrors.ErrInvalidListing
	}

	now := s.now()
	decision, err := s.Admission.Admit(ctx, ownerID, actor.Role, now)
	if err != nil {
		return entities.Listing{}, err
	}
	if !decision.Allowed {
		switch decision.Reason {
		case ports.DenialReasonQuota:
			return entities.Listing{}, domainerrors.QuotaExceededError{
				Current:   decision.Quota.Current,
				Limit:     decision.Quota.Limit,
				Remaining: decision.Quota.Remaining,
			}
		default:
			return entities.Listing{}, domainerrors.ScheduleClosedError{NextAllowedAt: decision.NextAllowedAt}
		}
	}

	duration := input.DurationDays
	if duration == 0 {
		duration = s.defaultDuration()
	}
	listingID, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	listing := entities.Listing{
		ListingID:    listingID,
		Kind:         kind,
		OwnerID:      ownerID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Price:        input.Price,
		Status:       entities.StatusPending,
		DurationDays: duration,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, listing); err != nil {
		return entities.Listing{}, err
	}

	// Quota bookkeeping is advisory; a counter write failure must not roll
	// back an already persisted listing.
	if err := s.Admission.RecordCreation(ctx, ownerID, now); err != nil {
		ResolveLogger(s.Logger).Error("quota record after creation failed",
			"event", "listing_quota_record_failed",
			"module", "marketplace/listing-service",
			"layer", "application",
			"listing_id", listing.ListingID,
			"owner_id", ownerID,
			"error", err.Error(),
		)
	}

	ResolveLogger(s.Logger).Info("listing created",
		"event", "listing_created",
		"module", "marketplace/listing-service",
		"layer", "application",
		"listing_id", listing.ListingID,
		"kind", string(listing.Kind),
		"owner_id", ownerID,
	)
	return listing, nil
}

func (s Service) Get(ctx context.Context, listingID string) (entities.Listing, error) {
	return s.Repo.Get(ctx, strings.TrimSpace(listingID))
}

func (s Service) List(ctx context.Context, filter ports.ListFilter) ([]entities.Listing, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.Repo.List(ctx, filter)
}

// Approve moves a listing into approved and stamps its expiry from the
// listing's own duration. Approving an already approved listing is the
// documented idempotent retry: it just refreshes ExpiresAt.
func (s Service) Approve(ctx context.Context, actor ports.Actor, listingID string) (entities.Listing, error) {
	return s.transition(ctx, actor, listingID, entities.EventApprove, func(listing *entities.Listing, now time.Time) error {
		listing.Status = entities.StatusApproved
		listing.RejectionReason = ""
		approvedAt := now
		expiresAt := now.AddDate(0, 0, listing.DurationDays)
		listing.ApprovedAt = &approvedAt
		listing.ExpiresAt = &expiresAt
		return nil
	}, &notification{title: "Listing approved", body: "Your listing has been approved and is now live."})
}

// Reject requires a non-empty reason; the reason travels with the listing
// until it leaves rejected.
func (s Service) Reject(ctx context.Context, actor ports.Actor, listingID string, reason string) (entities.Listing, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return entities.Listing{}, domainerrors.ErrReasonRequired
	}
	return s.transition(ctx, actor, listingID, entities.EventReject, func(listing *entities.Listing, now time.Time) error {
		listing.Status = entities.StatusRejected
		listing.RejectionReason = reason
		listing.ExpiresAt = nil
		return nil
	}, &notification{title: "Listing rejected", body: reason})
}

// Cancel takes an approved housing listing off the market; other kinds do
// not support cancellation.
func (s Service) Cancel(ctx context.Context, actor ports.Actor, listingID string, reason string) (entities.Listing, error) {
	return s.transition(ctx, actor, listingID, entities.EventCancel, func(listing *entities.Listing, now time.Time) error {
		listing.Status = entities.StatusCancelled
		listing.RejectionReason = strings.TrimSpace(reason)
		listing.ExpiresAt = nil
		return nil
	}, nil)
}

// Reapprove returns a cancelled or rejected listing to approved with the
// fixed re-approval window, independent of the original duration.
func (s Service) Reapprove(ctx context.Context, actor ports.Actor, listingID string) (entities.Listing, error) {
	return s.transition(ctx, actor, listingID, entities.EventReapprove, func(listing *entities.Listing, now time.Time) error {
		listing.Status = entities.StatusApproved
		listing.RejectionReason = ""
		expiresAt := now.AddDate(0, 0, s.reapprovalWindow())
		listing.ExpiresAt = &expiresAt
		return nil
	}, nil)
}

// Extend gives an expired listing (or an approved housing listing) a fresh
// fixed window.
func (s Service) Extend(ctx context.Context, actor ports.Actor, listingID string) (entities.Listing, error) {
	return s.transition(ctx, actor, listingID, entities.EventExtend, func(listing *entities.Listing, now time.Time) error {
		listing.Status = entities.StatusApproved
		expiresAt := now.AddDate(0, 0, s.reapprovalWindow())
		listing.ExpiresAt = &expiresAt
		return nil
	}, nil)
}

// Delete removes a pending listing outright; anything past pending must go
// through a transition instead.
func (s Service) Delete(ctx context.Context, actor ports.Actor, listingID string) error {
	if actor.Role != RoleAdmin {
		return domainerrors.ErrForbidden
	}
	listing, err := s.Repo.Get(ctx, strings.TrimSpace(listingID))
	if err != nil {
		return err
	}
	if !listing.CanTransition(entities.EventDelete) {
		return domainerrors.TransitionError{Status: string(listing.Status), Event: string(entities.EventDelete)}
	}
	if err := s.Repo.Delete(ctx, listing.ListingID); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("listing deleted",
		"event", "listing_deleted",
		"module", "marketplace/listing-service",
		"layer", "application",
		"listing_id", listing.ListingID,
		"admin_id", actor.UserID,
	)
	return nil
}

type notification struct {
	title string
	body  string
}

func (s Service) transition(
	ctx context.Context,
	actor ports.Actor,
	listingID string,
	event entities.TransitionEvent,
	apply func(*entities.Listing, time.Time) error,
	notify *notification,
) (entities.Listing, error) {
	if actor.Role != RoleAdmin {
		return entities.Listing{}, domainerrors.ErrForbidden
	}
	listing, err := s.Repo.Get(ctx, strings.TrimSpace(listingID))
	if err != nil {
		return entities.Listing{}, err
	}
	if !listing.CanTransition(event) {
		return entities.Listing{}, domainerrors.TransitionError{Status: string(listing.Status), Event: string(event)}
	}

	now := s.now()
	if err := apply(&listing, now); err != nil {
		return entities.Listing{}, err
	}
	listing.UpdatedAt = now
	if err := s.Repo.Update(ctx, listing); err != nil {
		return entities.Listing{}, err
	}

	ResolveLogger(s.Logger).Info("listing transitioned",
		"event", "listing_transitioned",
		"module", "marketplace/listing-service",
		"layer", "application",
		"listing_id", listing.ListingID,
		"transition", string(event),
		"status", string(listing.Status),
		"admin_id", actor.UserID,
	)

	if notify != nil {
		s.notifyOwner(ctx, listing, event, *notify)
	}
	return listing, nil
}

// notifyOwner is fire-and-forget: a delivery failure is logged and swallowed,
// never surfaced as a transition failure.
func (s Service) notifyOwner(ctx context.Context, listing entities.Listing, event entities.TransitionEvent, note notification) {
	if s.Notifier == nil {
		return
	}
	metadata := map[string]string{
		"listing_id": listing.ListingID,
		"kind":       string(listing.Kind),
		"status":     string(listing.Status),
	}
	if err := s.Notifier.Notify(ctx, listing.OwnerID, note.title, note.body, metadata); err != nil {
		ResolveLogger(s.Logger).Warn("listing notification delivery failed",
			"event", "listing_notification_failed",
			"module", "marketplace/listing-service",
			"layer", "application",
			"listing_id", listing.ListingID,
			"transition", string(event),
			"error", err.Error(),
		)
	}
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (s Service) defaultDuration() int {
	if s.DefaultDurationDays <= 0 {
		return 7
	}
	return s.DefaultDurationDays
}

func (s Service) reapprovalWindow() int {
	if s.ReapprovalWindowDays <= 0 {
		return 7
	}
	return s.ReapprovalWindowDays
}
