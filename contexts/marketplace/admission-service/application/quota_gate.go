package application

import (
	"context"

	"bazar/contexts/marketplace/admission-service/ports"
)

// DefaultDailyLimit applies when no quota limit has ever been configured.
const DefaultDailyLimit = 50

// QuotaGate checks and records per-user daily creation counts. The quota is
// advisory: two requests racing past Check with one slot left may both be
// admitted, but Record is an atomic upsert so the counter itself never loses
// an update.
type QuotaGate struct {
	Config   ports.QuotaConfigStore
	Counters ports.QuotaCounterStore
}

func (g QuotaGate) Check(ctx context.Context, userID string, day string) (ports.QuotaDecision, error) {
	limit, err := g.dailyLimit(ctx)
	if err != nil {
		return ports.QuotaDecision{}, err
	}
	current, err := g.Counters.CountFor(ctx, userID, day)
	if err != nil {
		return ports.QuotaDecision{}, err
	}
	remaining := limit - current
	if remaining < 0 {
		remaining = 0
	}
	return ports.QuotaDecision{
		CanPost:   current < limit,
		Current:   current,
		Limit:     limit,
		Remaining: remaining,
	}, nil
}

// Record increments the counter for one successful creation. Callers invoke
// it only after the listing is persisted, so a failed creation never
// consumes quota.
func (g QuotaGate) Record(ctx context.Context, userID string, day string) (int, error) {
	return g.Counters.Increment(ctx, userID, day)
}

func (g QuotaGate) dailyLimit(ctx context.Context) (int, error) {
	limit, found, err := g.Config.ActiveLimit(ctx)
	if err != nil {
		return 0, err
	}
	if !found {
		return DefaultDailyLimit, nil
	}
	return limit.DailyLimit, nil
}
