package outbox

import (
	"context"
	"time"
)

type OutboxRepository interface {
	// Create joins the caller's transaction when ctx carries one
	Create(ctx context.Context, event Event) error

	// ListPending returns pending or retryable failed events due at now, oldest first
	ListPending(ctx context.Context, now time.Time, limit int) ([]Event, error)

	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id string, errMsg string, nextRetryAt time.Time) error
}

// Publisher delivers one event to the broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
