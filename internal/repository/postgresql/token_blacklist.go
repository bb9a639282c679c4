package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/database"
)

type tokenBlacklistRepositoryImpl struct {
	db *database.DB
}

// NewTokenBlacklistRepository creates a new instance of auth.TokenBlacklistRepository.
func NewTokenBlacklistRepository(db *database.DB) auth.TokenBlacklistRepository {
	return &tokenBlacklistRepositoryImpl{db: db}
}

// hashToken hashes the token with SHA256 so raw bearer tokens never hit the table.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Revoke implements auth.TokenBlacklistRepository. Revoking twice is a no-op.
func (r *tokenBlacklistRepositoryImpl) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO auth_blacklisted_tokens (token_hash, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_hash) DO NOTHING
	`
	if _, err := q.Exec(ctx, query, hashToken(token), expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements auth.TokenBlacklistRepository.
func (r *tokenBlacklistRepositoryImpl) IsRevoked(ctx context.Context, token string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS (SELECT 1 FROM auth_blacklisted_tokens WHERE token_hash = $1)`

	var revoked bool
	if err := q.QueryRow(ctx, query, hashToken(token)).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return revoked, nil
}

// DeleteExpired implements auth.TokenBlacklistRepository.
func (r *tokenBlacklistRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM auth_blacklisted_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
