package ports

import (
	"context"

	"github.com/cityfix/platform/internal/core/domain"
)

// NotificationPublisher hands stored notifications to downstream delivery.
type NotificationPublisher interface {
	Publish(ctx context.Context, event domain.NotificationEvent) error
}

// NotificationDispatcher enqueues events for asynchronous publishing.
type NotificationDispatcher interface {
	Enqueue(event domain.NotificationEvent)
}
