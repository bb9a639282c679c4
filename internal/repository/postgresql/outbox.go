package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/outbox"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/database"
)

type outboxRepositoryImpl struct {
	db *database.DB
}

func NewOutboxRepository(db *database.DB) outbox.OutboxRepository {
	return &outboxRepositoryImpl{db: db}
}

// Create implements outbox.OutboxRepository.
func (r *outboxRepositoryImpl) Create(ctx context.Context, event outbox.Event) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO outbox_events (
			id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		event.ID, event.RequestID, event.AggregateType, event.AggregateID,
		event.EventType, event.Topic, []byte(event.Payload), event.Status, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

// ListPending implements outbox.OutboxRepository.
func (r *outboxRepositoryImpl) ListPending(ctx context.Context, now time.Time, limit int) ([]outbox.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id::text, COALESCE(request_id, ''), aggregate_type, aggregate_id, event_type, topic,
			   payload, status, retry_count, next_retry_at, last_error, created_at
		FROM outbox_events
		WHERE status IN ($1, $2)
		  AND (next_retry_at IS NULL OR next_retry_at <= $3)
		ORDER BY created_at ASC
		LIMIT $4
	`

	rows, err := q.Query(ctx, query, outbox.StatusPending, outbox.StatusFailed, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending outbox events: %w", err)
	}
	defer rows.Close()

	events := make([]outbox.Event, 0, limit)
	for rows.Next() {
		var e outbox.Event
		var payload []byte
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.Topic,
			&payload, &e.Status, &e.RetryCount, &e.NextRetryAt, &e.LastError, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		e.Payload = payload
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outbox events: %w", err)
	}

	return events, nil
}

// MarkSent implements outbox.OutboxRepository.
func (r *outboxRepositoryImpl) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE outbox_events
		SET status = $2, sent_at = $3, last_error = NULL
		WHERE id = $1
	`
	if _, err := q.Exec(ctx, query, id, outbox.StatusSent, sentAt); err != nil {
		return fmt.Errorf("failed to mark outbox event sent: %w", err)
	}
	return nil
}

// MarkFailed implements outbox.OutboxRepository.
func (r *outboxRepositoryImpl) MarkFailed(ctx context.Context, id string, errMsg string, nextRetryAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE outbox_events
		SET status = $2,
			retry_count = retry_count + 1,
			last_error = LEFT($3, 500),
			next_retry_at = $4
		WHERE id = $1
	`
	if _, err := q.Exec(ctx, query, id, outbox.StatusFailed, errMsg, nextRetryAt); err != nil {
		return fmt.Errorf("failed to mark outbox event failed: %w", err)
	}
	return nil
}
