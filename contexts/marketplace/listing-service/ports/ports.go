package ports

import (
	"context"
	"time"

	"bazar/contexts/marketplace/listing-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Actor struct {
	UserID string
	Role   string
}

type ListFilter struct {
	OwnerID string
	Kind    string
	Status  string
	Limit   int
	Offset  int
}

type Repository interface {
	Create(ctx context.Context, listing entities.Listing) error
	Get(ctx context.Context, listingID string) (entities.Listing, error)
	Update(ctx context.Context, listing entities.Listing) error
	Delete(ctx context.Context, listingID string) error
	List(ctx context.Context, filter ListFilter) ([]entities.Listing, error)
	// ExpireDue flips every approved listing whose expiry instant has
	// passed into expired, as one idempotent bulk statement.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

type QuotaState struct {
	Current   int
	Limit     int
	Remaining int
}

const (
	DenialReasonSchedule = "schedule"
	DenialReasonQuota    = "quota"
)

// AdmissionDecision is the creation gate verdict produced outside this
// context (schedule + quota + admin bypass).
type AdmissionDecision struct {
	Allowed       bool
	Reason        string // "schedule" or "quota" when denied
	NextAllowedAt *time.Time
	Quota         QuotaState
}

type AdmissionPort interface {
	Admit(ctx context.Context, userID string, role string, now time.Time) (AdmissionDecision, error)
	// RecordCreation books one successful creation against the owner's
	// daily counter. Called strictly after the listing is persisted.
	RecordCreation(ctx context.Context, userID string, now time.Time) error
}

// Notifier is fire-and-forget: delivery failures are logged by callers and
// never fail a lifecycle transition.
type Notifier interface {
	Notify(ctx context.Context, userID string, title string, body string, metadata map[string]string) error
}
