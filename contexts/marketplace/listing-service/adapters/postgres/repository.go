package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"bazar/contexts/marketplace/listing-service/domain/entities"
	domainerrors "bazar/contexts/marketplace/listing-service/domain/errors"
	"bazar/contexts/marketplace/listing-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Create(ctx context.Context, listing entities.Listing) error {
	row := listingModelFromEntity(listing)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidListing
		}
		return r.logError("listing_repo_create_failed", err, "listing_id", listing.ListingID)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, listingID string) (entities.Listing, error) {
	var row listingModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(listingID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Listing{}, domainerrors.ErrListingNotFound
		}
		return entities.Listing{}, r.logError("listing_repo_get_failed", err, "listing_id", listingID)
	}
	return row.toEntity(), nil
}

func (r *Repository) Update(ctx context.Context, listing entities.Listing) error {
	row := listingModelFromEntity(listing)
	result := r.db.WithContext(ctx).
		Model(&listingModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"status":           row.Status,
			"rejection_reason": row.RejectionReason,
			"duration_days":    row.DurationDays,
			"approved_at":      row.ApprovedAt,
			"expires_at":       row.ExpiresAt,
			"updated_at":       row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("listing_repo_update_failed", result.Error, "listing_id", listing.ListingID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrListingNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, listingID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(listingID)).
		Delete(&listingModel{})
	if result.Error != nil {
		return r.logError("listing_repo_delete_failed", result.Error, "listing_id", listingID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrListingNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]entities.Listing, error) {
	tx := r.db.WithContext(ctx).Model(&listingModel{})
	if strings.TrimSpace(filter.OwnerID) != "" {
		tx = tx.Where("owner_id = ?", strings.TrimSpace(filter.OwnerID))
	}
	if strings.TrimSpace(filter.Kind) != "" {
		tx = tx.Where("kind = ?", strings.ToLower(strings.TrimSpace(filter.Kind)))
	}
	if strings.TrimSpace(filter.Status) != "" {
		tx = tx.Where("status = ?", strings.ToLower(strings.TrimSpace(filter.Status)))
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		tx = tx.Offset(filter.Offset)
	}
	var rows []listingModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("listing_repo_list_failed", err,
			"owner_id", filter.OwnerID,
			"kind", filter.Kind,
			"status", filter.Status,
		)
	}
	items := make([]entities.Listing, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// ExpireDue is one bulk update so re-running it when nothing is due is a
// no-op, and a sweep racing a concurrent approve can never resurrect a row.
func (r *Repository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&listingModel{}).
		Where("status = ?", string(entities.StatusApproved)).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now.UTC()).
		Updates(map[string]any{
			"status":     string(entities.StatusExpired),
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return 0, r.logError("listing_repo_expire_due_failed", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "marketplace/listing-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("listing repository operation failed", fields...)
	return err
}

type listingModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	Kind            string     `gorm:"column:kind"`
	OwnerID         string     `gorm:"column:owner_id"`
	Title           string     `gorm:"column:title"`
	Description     string     `gorm:"column:description"`
	Price           float64    `gorm:"column:price"`
	Status          string     `gorm:"column:status"`
	DurationDays    int        `gorm:"column:duration_days"`
	RejectionReason string     `gorm:"column:rejection_reason"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	ExpiresAt       *time.Time `gorm:"column:expires_at"`
}

func (listingModel) TableName() string {
	return "listings"
}

func listingModelFromEntity(listing entities.Listing) listingModel {
	row := listingModel{
		ID:              strings.TrimSpace(listing.ListingID),
		Kind:            string(listing.Kind),
		OwnerID:         strings.TrimSpace(listing.OwnerID),
		Title:           listing.Title,
		Description:     listing.Description,
		Price:           listing.Price,
		Status:          string(listing.Status),
		DurationDays:    listing.DurationDays,
		RejectionReason: listing.RejectionReason,
		CreatedAt:       listing.CreatedAt.UTC(),
		UpdatedAt:       listing.UpdatedAt.UTC(),
		ApprovedAt:      normalizeOptionalTime(listing.ApprovedAt),
		ExpiresAt:       normalizeOptionalTime(listing.ExpiresAt),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m listingModel) toEntity() entities.Listing {
	return entities.Listing{
		ListingID:       m.ID,
		Kind:            entities.ListingKind(m.Kind),
		OwnerID:         m.OwnerID,
		Title:           m.Title,
		Description:     m.Description,
		Price:           m.Price,
		Status:          entities.ListingStatus(m.Status),
		DurationDays:    m.DurationDays,
		RejectionReason: m.RejectionReason,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
		ApprovedAt:      normalizeOptionalTime(m.ApprovedAt),
		ExpiresAt:       normalizeOptionalTime(m.ExpiresAt),
	}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
