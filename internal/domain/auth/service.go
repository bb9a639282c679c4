package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	// PurgeExpired drops blacklist entries whose tokens can no longer verify
	PurgeExpired(ctx context.Context) (int64, error)
}
