package user

import "context"

type UserRepository interface {
	// GetByEmail returns the active user with the given email or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (User, error)
}
