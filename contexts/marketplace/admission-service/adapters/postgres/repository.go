package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"bazar/contexts/marketplace/admission-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) Windows(ctx context.Context) ([]ports.ScheduleWindow, error) {
	var rows []scheduleWindowModel
	if err := r.db.WithContext(ctx).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("admission_repo_list_windows_failed", err)
	}
	items := make([]ports.ScheduleWindow, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

// ReplaceWindows swaps the whole schedule in one transaction so the gate
// never observes a half-written week.
func (r *Repository) ReplaceWindows(ctx context.Context, windows []ports.ScheduleWindow) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&scheduleWindowModel{}).Error; err != nil {
			return err
		}
		for _, window := range windows {
			row := scheduleWindowModelFromPort(window)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.logError("admission_repo_replace_windows_failed", err, "window_count", len(windows))
	}
	return nil
}

func (r *Repository) ActiveLimit(ctx context.Context) (ports.QuotaLimit, bool, error) {
	var row quotaLimitModel
	err := r.db.WithContext(ctx).
		Order("version DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.QuotaLimit{}, false, nil
		}
		return ports.QuotaLimit{}, false, r.logError("admission_repo_active_limit_failed", err)
	}
	return ports.QuotaLimit{
		Version:    row.Version,
		DailyLimit: row.DailyLimit,
		UpdatedAt:  row.UpdatedAt.UTC(),
	}, true, nil
}

// SetLimit appends a new version row; the highest version is the current
// limit, so concurrent admin edits serialize on the sequence instead of
// racing over an active flag.
func (r *Repository) SetLimit(ctx context.Context, dailyLimit int, now time.Time) (ports.QuotaLimit, error) {
	row := quotaLimitModel{
		DailyLimit: dailyLimit,
		UpdatedAt:  now.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ports.QuotaLimit{}, r.logError("admission_repo_set_limit_failed", err, "daily_limit", dailyLimit)
	}
	return ports.QuotaLimit{
		Version:    row.Version,
		DailyLimit: row.DailyLimit,
		UpdatedAt:  row.UpdatedAt.UTC(),
	}, nil
}

func (r *Repository) CountFor(ctx context.Context, userID string, day string) (int, error) {
	var row dailyCounterModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("day = ?", day).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, r.logError("admission_repo_count_for_failed", err, "user_id", userID, "day", day)
	}
	return row.Count, nil
}

// Increment is the one contended write in the system. It must stay a single
// upsert statement (insert count=1, on conflict count = count + 1); a
// read-then-write pair here would lose updates under concurrent requests.
func (r *Repository) Increment(ctx context.Context, userID string, day string) (int, error) {
	row := dailyCounterModel{
		UserID: strings.TrimSpace(userID),
		Day:    day,
		Count:  1,
	}
	create := r.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]any{
				"count": gorm.Expr("daily_counters.count + 1"),
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "count"}}},
	).Create(&row)
	if create.Error != nil {
		return 0, r.logError("admission_repo_increment_failed", create.Error, "user_id", userID, "day", day)
	}
	return row.Count, nil
}

func (r *Repository) ResetFor(ctx context.Context, userID string, day string) error {
	row := dailyCounterModel{
		UserID: strings.TrimSpace(userID),
		Day:    day,
		Count:  0,
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count": 0,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("admission_repo_reset_for_failed", create.Error, "user_id", userID, "day", day)
	}
	return nil
}

func (r *Repository) DeleteBefore(ctx context.Context, cutoffDay string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("day < ?", cutoffDay).
		Delete(&dailyCounterModel{})
	if result.Error != nil {
		return 0, r.logError("admission_repo_delete_before_failed", result.Error, "cutoff_day", cutoffDay)
	}
	return result.RowsAffected, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "marketplace/admission-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("admission repository operation failed", fields...)
	return err
}

type scheduleWindowModel struct {
	Weekday     int       `gorm:"column:weekday;primaryKey"`
	StartMinute int       `gorm:"column:start_minute"`
	EndMinute   int       `gorm:"column:end_minute"`
	Active      bool      `gorm:"column:active"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (scheduleWindowModel) TableName() string {
	return "posting_schedule"
}

func scheduleWindowModelFromPort(window ports.ScheduleWindow) scheduleWindowModel {
	row := scheduleWindowModel{
		Weekday:     window.Weekday,
		StartMinute: window.StartMinute,
		EndMinute:   window.EndMinute,
		Active:      window.Active,
		UpdatedAt:   window.UpdatedAt.UTC(),
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now().UTC()
	}
	return row
}

func (m scheduleWindowModel) toPort() ports.ScheduleWindow {
	return ports.ScheduleWindow{
		Weekday:     m.Weekday,
		StartMinute: m.StartMinute,
		EndMinute:   m.EndMinute,
		Active:      m.Active,
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type quotaLimitModel struct {
	Version    int       `gorm:"column:version;primaryKey;autoIncrement"`
	DailyLimit int       `gorm:"column:daily_limit"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (quotaLimitModel) TableName() string {
	return "quota_limits"
}

type dailyCounterModel struct {
	UserID string `gorm:"column:user_id;primaryKey"`
	Day    string `gorm:"column:day;primaryKey"`
	Count  int    `gorm:"column:count"`
}

func (dailyCounterModel) TableName() string {
	return "daily_counters"
}

var _ ports.ScheduleStore = (*Repository)(nil)
var _ ports.QuotaConfigStore = (*Repository)(nil)
var _ ports.QuotaCounterStore = (*Repository)(nil)
