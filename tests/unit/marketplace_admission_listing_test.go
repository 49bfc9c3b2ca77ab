package unit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	admissionservice "bazar/contexts/marketplace/admission-service"
	admissionports "bazar/contexts/marketplace/admission-service/ports"
	admissionhttp "bazar/contexts/marketplace/admission-service/transport/http"
	listingservice "bazar/contexts/marketplace/listing-service"
	listingports "bazar/contexts/marketplace/listing-service/ports"
	listinghttp "bazar/contexts/marketplace/listing-service/transport/http"
)

// admissionBridge mirrors the bootstrap wiring: the listing module consumes
// the admission controller only through its own port.
type admissionBridge struct {
	module admissionservice.Module
}

func (b admissionBridge) Admit(ctx context.Context, userID string, role string, now time.Time) (listingports.AdmissionDecision, error) {
	result, err := b.module.Service.Admit(ctx, admissionports.Actor{UserID: userID, Role: role}, now)
	if err != nil {
		return listingports.AdmissionDecision{}, err
	}
	return listingports.AdmissionDecision{
		Allowed:       result.Allowed,
		Reason:        result.Reason,
		NextAllowedAt: result.NextAllowedAt,
		Quota: listingports.QuotaState{
			Current:   result.Quota.Current,
			Limit:     result.Quota.Limit,
			Remaining: result.Quota.Remaining,
		},
	}, nil
}

func (b admissionBridge) RecordCreation(ctx context.Context, userID string, now time.Time) error {
	_, err := b.module.Service.RecordCreation(ctx, userID, now)
	return err
}

func openAllWeek(t *testing.T, module admissionservice.Module) {
	t.Helper()
	windows := make([]admissionhttp.ScheduleWindowPayload, 0, 7)
	for weekday := 0; weekday < 7; weekday++ {
		windows = append(windows, admissionhttp.ScheduleWindowPayload{
			Weekday:   weekday,
			StartTime: "00:00",
			EndTime:   "23:59",
			Active:    true,
		})
	}
	_, err := module.Handler.ReplaceScheduleHandler(
		context.Background(),
		admissionports.Actor{UserID: "admin_1", Role: "admin"},
		admissionhttp.ReplaceScheduleRequest{Windows: windows},
	)
	require.NoError(t, err)
}

func TestListingCreationConsumesDailyQuota(t *testing.T) {
	ctx := context.Background()
	admissionModule := admissionservice.NewInMemoryModule(nil)
	listingModule := listingservice.NewInMemoryModule(admissionBridge{module: admissionModule}, nil, nil)

	openAllWeek(t, admissionModule)
	admin := admissionports.Actor{UserID: "admin_1", Role: "admin"}
	_, err := admissionModule.Handler.SetQuotaLimitHandler(ctx, admin, admissionhttp.SetQuotaLimitRequest{DailyLimit: 2})
	require.NoError(t, err)

	owner := listingports.Actor{UserID: "seller_77"}
	for i := 0; i < 2; i++ {
		_, err := listingModule.Handler.CreateHandler(ctx, owner, listinghttp.CreateListingRequest{
			Kind:  "watch",
			Title: "vintage chronograph",
			Price: 1200,
		})
		require.NoError(t, err)
	}

	usage, err := admissionModule.Handler.DailyUsageHandler(ctx, admissionports.Actor{UserID: "seller_77"})
	require.NoError(t, err)
	require.Equal(t, 2, usage.Data.Current)
	require.False(t, usage.Data.CanPost)

	_, err = listingModule.Handler.CreateHandler(ctx, owner, listinghttp.CreateListingRequest{
		Kind:  "watch",
		Title: "one too many",
		Price: 900,
	})
	require.Error(t, err)

	// An admin reset frees the seller again.
	_, err = admissionModule.Handler.ResetUserCountHandler(ctx, admin, "seller_77")
	require.NoError(t, err)
	_, err = listingModule.Handler.CreateHandler(ctx, owner, listinghttp.CreateListingRequest{
		Kind:  "watch",
		Title: "back in business",
		Price: 700,
	})
	require.NoError(t, err)
}

func TestModerationFlowAcrossModules(t *testing.T) {
	ctx := context.Background()
	admissionModule := admissionservice.NewInMemoryModule(nil)
	listingModule := listingservice.NewInMemoryModule(admissionBridge{module: admissionModule}, nil, nil)
	openAllWeek(t, admissionModule)

	created, err := listingModule.Handler.CreateHandler(ctx, listingports.Actor{UserID: "seller_1"}, listinghttp.CreateListingRequest{
		Kind:  "housing",
		Title: "2br apartment downtown",
		Price: 1500,
	})
	require.NoError(t, err)
	require.Equal(t, "pending", created.Data.Status)

	admin := listingports.Actor{UserID: "admin_1", Role: "admin"}
	listingID := created.Data.ListingID

	approved, err := listingModule.Handler.ApproveHandler(ctx, admin, listingID)
	require.NoError(t, err)
	require.Equal(t, "approved", approved.Data.Status)
	require.NotEmpty(t, approved.Data.ExpiresAt)

	cancelled, err := listingModule.Handler.CancelHandler(ctx, admin, listingID, listinghttp.CancelListingRequest{Reason: "tenant found"})
	require.NoError(t, err)
	require.Equal(t, "cancelled", cancelled.Data.Status)

	reapproved, err := listingModule.Handler.ReapproveHandler(ctx, admin, listingID)
	require.NoError(t, err)
	require.Equal(t, "approved", reapproved.Data.Status)

	rejected, err := listingModule.Handler.RejectHandler(ctx, admin, listingID, listinghttp.RejectListingRequest{Reason: "duplicate posting"})
	require.NoError(t, err)
	require.Equal(t, "rejected", rejected.Data.Status)
	require.Empty(t, rejected.Data.ExpiresAt)

	_, err = listingModule.Handler.DeleteHandler(ctx, admin, listingID)
	require.Error(t, err, "delete is pending-only")
}

func TestScheduleClosedDenialReachesListingCaller(t *testing.T) {
	ctx := context.Background()
	admissionModule := admissionservice.NewInMemoryModule(nil)
	listingModule := listingservice.NewInMemoryModule(admissionBridge{module: admissionModule}, nil, nil)
	// No schedule configured: posting is closed everywhere.

	_, err := listingModule.Handler.CreateHandler(ctx, listingports.Actor{UserID: "seller_1"}, listinghttp.CreateListingRequest{
		Kind:  "car",
		Title: "2015 wagon",
		Price: 4300,
	})
	require.Error(t, err)

	// Admins bypass the closed schedule.
	_, err = listingModule.Handler.CreateHandler(ctx, listingports.Actor{UserID: "admin_1", Role: "admin"}, listinghttp.CreateListingRequest{
		Kind:  "car",
		Title: "fleet sale",
		Price: 3100,
	})
	require.NoError(t, err)
}
