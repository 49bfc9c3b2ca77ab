package entities

import "time"

type ListingKind string

const (
	KindWatch   ListingKind = "watch"
	KindCar     ListingKind = "car"
	KindHousing ListingKind = "housing"
)

func (k ListingKind) Valid() bool {
	switch k {
	case KindWatch, KindCar, KindHousing:
		return true
	}
	return false
}

type ListingStatus string

const (
	StatusPending   ListingStatus = "pending"
	StatusApproved  ListingStatus = "approved"
	StatusRejected  ListingStatus = "rejected"
	StatusCancelled ListingStatus = "cancelled"
	StatusExpired   ListingStatus = "expired"
)

type TransitionEvent string

const (
	EventApprove   TransitionEvent = "approve"
	EventReject    TransitionEvent = "reject"
	EventCancel    TransitionEvent = "cancel"
	EventReapprove TransitionEvent = "reapprove"
	EventExtend    TransitionEvent = "extend"
	EventDelete    TransitionEvent = "delete"
)

// Listing is the one polymorphic classifieds entity. The kind discriminant
// replaces the three parallel per-kind tables; the lifecycle contract is
// identical across kinds except where noted on the transition table.
type Listing struct {
	ListingID       string
	Kind            ListingKind
	OwnerID         string
	Title           string
	Description     string
	Price           float64
	Status          ListingStatus
	DurationDays    int
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ApprovedAt      *time.Time
	ExpiresAt       *time.Time
}

// transitionSources lists the valid source statuses per event for all kinds.
// Kind-specific widenings (housing cancel/extend) are layered on top in
// CanTransition.
var transitionSources = map[TransitionEvent][]ListingStatus{
	// approve from approved covers the idempotent admin retry: it only
	// refreshes ExpiresAt.
	EventApprove:   {StatusPending, StatusRejected, StatusExpired, StatusApproved},
	EventReject:    {StatusPending, StatusApproved},
	EventCancel:    {},
	EventReapprove: {StatusCancelled, StatusRejected},
	EventExtend:    {StatusExpired},
	EventDelete:    {StatusPending},
}

func (l Listing) CanTransition(event TransitionEvent) bool {
	for _, status := range transitionSources[event] {
		if l.Status == status {
			return true
		}
	}
	switch event {
	case EventCancel:
		return l.Kind == KindHousing && l.Status == StatusApproved
	case EventExtend:
		return l.Kind == KindHousing && l.Status == StatusApproved
	}
	return false
}
