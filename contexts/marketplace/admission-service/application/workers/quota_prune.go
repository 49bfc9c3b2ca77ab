package workers

import (
	"context"
	"log/slog"
	"time"

	"bazar/contexts/marketplace/admission-service/application"
	"bazar/contexts/marketplace/admission-service/ports"
)

// QuotaResetSweeper prunes per-(user, day) counters older than the retention
// window. It is storage hygiene only: the daily reset itself happens because
// counters are keyed by calendar day, and today's rows are never touched.
type QuotaResetSweeper struct {
	Counters      ports.QuotaCounterStore
	Clock         ports.Clock
	RetentionDays int
	Logger        *slog.Logger
}

func (s QuotaResetSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(s.Logger)
	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock.Now().UTC()
	}
	retention := s.RetentionDays
	if retention <= 0 {
		retention = 30
	}

	cutoff := application.DayOf(now.AddDate(0, 0, -retention))
	pruned, err := s.Counters.DeleteBefore(ctx, cutoff)
	if err != nil {
		logger.Error("quota counter prune failed",
			"event", "admission_quota_prune_failed",
			"module", "marketplace/admission-service",
			"layer", "worker",
			"cutoff_day", cutoff,
			"error", err.Error(),
		)
		return err
	}
	if pruned > 0 {
		logger.Info("quota counter prune completed",
			"event", "admission_quota_prune_completed",
			"module", "marketplace/admission-service",
			"layer", "worker",
			"cutoff_day", cutoff,
			"pruned_count", pruned,
		)
	}
	return nil
}
