package events

import "time"

// PushNotification is the shared notification shape handed to the push bus
// after a lifecycle transition. Delivery is fire-and-forget; the envelope
// carries enough metadata for a delivery worker to route and render it.
type PushNotification struct {
	NotificationID string            `json:"notification_id"`
	UserID         string            `json:"user_id"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	OccurredAtUTC  time.Time         `json:"occurred_at_utc"`
}
