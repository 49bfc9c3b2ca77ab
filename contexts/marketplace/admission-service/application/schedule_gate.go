package application

import (
	"context"
	"time"

	"bazar/contexts/marketplace/admission-service/ports"
)

// ScheduleGate decides whether posting is open at a given instant.
// A window matches on the half-open interval [start, end) of its weekday.
type ScheduleGate struct {
	Schedule ports.ScheduleStore
}

// Evaluate resolves the posting decision for now. When posting is closed it
// scans forward up to seven days (including a later window today) for the
// earliest active window start; NextAllowedAt stays nil when the whole
// horizon is closed.
func (g ScheduleGate) Evaluate(ctx context.Context, now time.Time) (ports.ScheduleDecision, error) {
	windows, err := g.Schedule.Windows(ctx)
	if err != nil {
		return ports.ScheduleDecision{}, err
	}

	byWeekday := make(map[int]ports.ScheduleWindow, len(windows))
	for _, window := range windows {
		if !window.Active || window.StartMinute >= window.EndMinute {
			// Inactive rows and degenerate (overnight) rows never match.
			// ReplaceWindows rejects the latter at write time already.
			continue
		}
		if _, exists := byWeekday[window.Weekday]; exists {
			continue
		}
		byWeekday[window.Weekday] = window
	}

	nowMinute := now.Hour()*60 + now.Minute()
	if window, ok := byWeekday[int(now.Weekday())]; ok {
		if nowMinute >= window.StartMinute && nowMinute < window.EndMinute {
			return ports.ScheduleDecision{Allowed: true}, nil
		}
	}

	for offset := 0; offset <= 7; offset++ {
		day := now.AddDate(0, 0, offset)
		window, ok := byWeekday[int(day.Weekday())]
		if !ok {
			continue
		}
		if offset == 0 && window.StartMinute <= nowMinute {
			continue
		}
		next := startOfDay(day).Add(time.Duration(window.StartMinute) * time.Minute)
		return ports.ScheduleDecision{Allowed: false, NextAllowedAt: &next}, nil
	}
	return ports.ScheduleDecision{Allowed: false}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
