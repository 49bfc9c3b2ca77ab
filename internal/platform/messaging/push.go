package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bazar/internal/shared/events"

	"github.com/google/uuid"
)

// PushBus is the in-process push-notification collaborator invoked after
// approve/reject transitions. Delivery is fire-and-forget: slow subscribers
// are dropped with a warning and publish errors never reach the lifecycle
// caller.
type PushBus struct {
	mu          sync.RWMutex
	subscribers []chan events.PushNotification
	logger      *slog.Logger
}

func NewPushBus(logger *slog.Logger) *PushBus {
	return &PushBus{logger: logger}
}

// Notify implements the listing-service Notifier port.
func (b *PushBus) Notify(ctx context.Context, userID string, title string, body string, metadata map[string]string) error {
	notification := events.PushNotification{
		NotificationID: uuid.NewString(),
		UserID:         userID,
		Title:          title,
		Body:           body,
		Metadata:       metadata,
		OccurredAtUTC:  time.Now().UTC(),
	}

	b.mu.RLock()
	subs := append([]chan events.PushNotification(nil), b.subscribers...)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- notification:
		default:
			if b.logger != nil {
				b.logger.Warn("dropping push notification for slow subscriber",
					"event", "push_bus_drop",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"notification_id", notification.NotificationID,
					"user_id", userID,
				)
			}
		}
	}

	if b.logger != nil {
		b.logger.Info("push notification published",
			"event", "push_bus_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"notification_id", notification.NotificationID,
			"user_id", userID,
			"title", title,
		)
	}
	return nil
}

// Subscribe attaches a delivery consumer (APNs/FCM relay, test probe).
func (b *PushBus) Subscribe(ctx context.Context, handler func(context.Context, events.PushNotification) error) {
	ch := make(chan events.PushNotification, 128)

	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.removeSubscriber(ch)
				return
			case notification := <-ch:
				if err := handler(ctx, notification); err != nil && b.logger != nil {
					b.logger.Error("push delivery handler failed",
						"event", "push_bus_deliver_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"notification_id", notification.NotificationID,
						"user_id", notification.UserID,
						"error", err.Error(),
					)
				}
			}
		}
	}()
}

func (b *PushBus) removeSubscriber(target chan events.PushNotification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	filtered := make([]chan events.PushNotification, 0, len(b.subscribers))
	for _, item := range b.subscribers {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	b.subscribers = filtered
}
