package http

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type ScheduleWindowPayload struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"` // "09:00"
	EndTime   string `json:"end_time"`   // "18:00"
	Active    bool   `json:"active"`
}

type ReplaceScheduleRequest struct {
	Windows []ScheduleWindowPayload `json:"windows"`
}

type ScheduleResponse struct {
	Status string `json:"status"`
	Data   struct {
		Windows []ScheduleWindowPayload `json:"windows"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type PostingStatusResponse struct {
	Status string `json:"status"`
	Data   struct {
		Open          bool   `json:"open"`
		NextAllowedAt string `json:"next_allowed_at,omitempty"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type SetQuotaLimitRequest struct {
	DailyLimit int `json:"daily_limit"`
}

type QuotaLimitResponse struct {
	Status string `json:"status"`
	Data   struct {
		DailyLimit int    `json:"daily_limit"`
		Version    int    `json:"version,omitempty"`
		UpdatedAt  string `json:"updated_at,omitempty"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type DailyUsageResponse struct {
	Status string `json:"status"`
	Data   struct {
		CanPost   bool `json:"can_post"`
		Current   int  `json:"current"`
		Limit     int  `json:"limit"`
		Remaining int  `json:"remaining"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type ResetCountResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserID string `json:"user_id"`
		Day    string `json:"day"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}
