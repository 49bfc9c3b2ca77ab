package workers

import (
	"context"
	"log/slog"
	"time"

	"bazar/contexts/marketplace/listing-service/application"
	"bazar/contexts/marketplace/listing-service/ports"
)

// ExpirationSweeper flips approved listings past their expiry into expired.
// The sweep is one idempotent bulk statement, safe to run concurrently with
// in-flight lifecycle calls; no notifications fire on sweep, only on
// explicit admin actions.
type ExpirationSweeper struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (s ExpirationSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(s.Logger)
	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock.Now().UTC()
	}

	expired, err := s.Repo.ExpireDue(ctx, now)
	if err != nil {
		logger.Error("listing expiry sweep failed",
			"event", "listing_expiry_sweep_failed",
			"module", "marketplace/listing-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if expired > 0 {
		logger.Info("listing expiry sweep completed",
			"event", "listing_expiry_sweep_completed",
			"module", "marketplace/listing-service",
			"layer", "worker",
			"expired_count", expired,
		)
	}
	return nil
}
