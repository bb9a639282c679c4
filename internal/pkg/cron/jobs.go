package cron

import (
	"context"
	"time"
)

const (
	JobPurgeRevokedTokens = "purge_revoked_tokens"
	JobRelayOutbox        = "relay_outbox_events"

	PurgeInterval = time.Hour
)

type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type OutboxRelay interface {
	RelayPending(ctx context.Context) error
}

// RegisterTokenPurge schedules the hourly cleanup of expired blacklisted tokens.
func RegisterTokenPurge(s *Scheduler, purger TokenPurger) {
	s.AddJob(JobPurgeRevokedTokens, PurgeInterval, func(ctx context.Context) error {
		_, err := purger.PurgeExpired(ctx)
		return err
	})
}

func RegisterOutboxRelay(s *Scheduler, relay OutboxRelay, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	s.AddJob(JobRelayOutbox, interval, relay.RelayPending)
}
