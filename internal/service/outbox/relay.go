package outbox

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/outbox"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/clock"
)

// BatchSize is the number of due events published per relay run.
const BatchSize = 50

type Relay struct {
	repo      outbox.OutboxRepository
	publisher outbox.Publisher
	clock     clock.Clock
}

func NewRelay(repo outbox.OutboxRepository, publisher outbox.Publisher, clk clock.Clock) *Relay {
	return &Relay{
		repo:      repo,
		publisher: publisher,
		clock:     clk,
	}
}

// RelayPending publishes one batch of due events. A publish failure marks
// that event failed with a backoff and moves on to the next one.
func (r *Relay) RelayPending(ctx context.Context) error {
	now := clock.Now(r.clock)

	events, err := r.repo.ListPending(ctx, now, BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending outbox events: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "processing pending outbox events", "count", len(events))

	for _, event := range events {
		if err := r.publisher.Publish(ctx, event); err != nil {
			slog.ErrorContext(ctx, "publish outbox event failed",
				"outbox_id", event.ID,
				"event_type", event.EventType,
				"topic", event.Topic,
				"retry_count", event.RetryCount,
				"error", err,
			)
			next := outbox.NextRetryAt(now, event.RetryCount)
			if markErr := r.repo.MarkFailed(ctx, event.ID, err.Error(), next); markErr != nil {
				slog.ErrorContext(ctx, "mark outbox failed failed", "outbox_id", event.ID, "error", markErr)
			}
			continue
		}

		if err := r.repo.MarkSent(ctx, event.ID, clock.Now(r.clock)); err != nil {
			slog.ErrorContext(ctx, "mark outbox sent failed", "outbox_id", event.ID, "error", err)
			continue
		}

		slog.InfoContext(ctx, "outbox event sent",
			"outbox_id", event.ID,
			"event_type", event.EventType,
			"topic", event.Topic,
		)
	}

	return nil
}
