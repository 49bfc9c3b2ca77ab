package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bazar/contexts/marketplace/admission-service/application"
	domainerrors "bazar/contexts/marketplace/admission-service/domain/errors"
	"bazar/contexts/marketplace/admission-service/ports"
	httptransport "bazar/contexts/marketplace/admission-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ScheduleHandler(ctx context.Context) (httptransport.ScheduleResponse, error) {
	windows, err := h.Service.Windows(ctx)
	if err != nil {
		return httptransport.ScheduleResponse{}, err
	}
	return mapScheduleResponse(windows), nil
}

func (h Handler) ReplaceScheduleHandler(ctx context.Context, actor ports.Actor, req httptransport.ReplaceScheduleRequest) (httptransport.ScheduleResponse, error) {
	windows := make([]ports.ScheduleWindow, 0, len(req.Windows))
	for _, payload := range req.Windows {
		start, err := parseClock(payload.StartTime)
		if err != nil {
			return httptransport.ScheduleResponse{}, domainerrors.ErrInvalidWindow
		}
		end, err := parseClock(payload.EndTime)
		if err != nil {
			return httptransport.ScheduleResponse{}, domainerrors.ErrInvalidWindow
		}
		windows = append(windows, ports.ScheduleWindow{
			Weekday:     payload.Weekday,
			StartMinute: start,
			EndMinute:   end,
			Active:      payload.Active,
		})
	}
	if err := h.Service.ReplaceWindows(ctx, actor, windows); err != nil {
		return httptransport.ScheduleResponse{}, err
	}
	stored, err := h.Service.Windows(ctx)
	if err != nil {
		return httptransport.ScheduleResponse{}, err
	}
	return mapScheduleResponse(stored), nil
}

func (h Handler) PostingStatusHandler(ctx context.Context) (httptransport.PostingStatusResponse, error) {
	decision, err := h.Service.PostingStatus(ctx)
	if err != nil {
		return httptransport.PostingStatusResponse{}, err
	}
	resp := httptransport.PostingStatusResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.Open = decision.Allowed
	if decision.NextAllowedAt != nil {
		resp.Data.NextAllowedAt = decision.NextAllowedAt.UTC().Format(time.RFC3339)
	}
	return resp, nil
}

func (h Handler) QuotaLimitHandler(ctx context.Context) (httptransport.QuotaLimitResponse, error) {
	limit, err := h.Service.QuotaLimit(ctx)
	if err != nil {
		return httptransport.QuotaLimitResponse{}, err
	}
	return mapQuotaLimitResponse(limit), nil
}

func (h Handler) SetQuotaLimitHandler(ctx context.Context, actor ports.Actor, req httptransport.SetQuotaLimitRequest) (httptransport.QuotaLimitResponse, error) {
	limit, err := h.Service.SetQuotaLimit(ctx, actor, req.DailyLimit)
	if err != nil {
		return httptransport.QuotaLimitResponse{}, err
	}
	return mapQuotaLimitResponse(limit), nil
}

func (h Handler) DailyUsageHandler(ctx context.Context, actor ports.Actor) (httptransport.DailyUsageResponse, error) {
	usage, err := h.Service.DailyUsage(ctx, actor)
	if err != nil {
		return httptransport.DailyUsageResponse{}, err
	}
	resp := httptransport.DailyUsageResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.CanPost = usage.CanPost
	resp.Data.Current = usage.Current
	resp.Data.Limit = usage.Limit
	resp.Data.Remaining = usage.Remaining
	return resp, nil
}

func (h Handler) ResetUserCountHandler(ctx context.Context, actor ports.Actor, userID string) (httptransport.ResetCountResponse, error) {
	if err := h.Service.ResetUserCount(ctx, actor, userID); err != nil {
		return httptransport.ResetCountResponse{}, err
	}
	resp := httptransport.ResetCountResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.UserID = strings.TrimSpace(userID)
	resp.Data.Day = application.DayOf(time.Now().UTC())
	return resp, nil
}

func mapScheduleResponse(windows []ports.ScheduleWindow) httptransport.ScheduleResponse {
	resp := httptransport.ScheduleResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.Windows = make([]httptransport.ScheduleWindowPayload, 0, len(windows))
	for _, window := range windows {
		resp.Data.Windows = append(resp.Data.Windows, httptransport.ScheduleWindowPayload{
			Weekday:   window.Weekday,
			StartTime: formatClock(window.StartMinute),
			EndTime:   formatClock(window.EndMinute),
			Active:    window.Active,
		})
	}
	return resp
}

func mapQuotaLimitResponse(limit ports.QuotaLimit) httptransport.QuotaLimitResponse {
	resp := httptransport.QuotaLimitResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.DailyLimit = limit.DailyLimit
	resp.Data.Version = limit.Version
	if !limit.UpdatedAt.IsZero() {
		resp.Data.UpdatedAt = limit.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func parseClock(value string) (int, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

func formatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
