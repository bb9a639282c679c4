package auth

import (
	"context"
	"time"
)

// TokenBlacklistRepository stores revoked access tokens until they expire.
// Tokens are hashed before they reach the store.
type TokenBlacklistRepository interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
