package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	employee.EmployeeRepository
	auth.TokenBlacklistRepository
	jwt.Service
	clock clock.Clock
}

func NewAuthService(
	userRepository user.UserRepository,
	employeeRepository employee.EmployeeRepository,
	blacklistRepository auth.TokenBlacklistRepository,
	jwtService jwt.Service,
	clk clock.Clock,
) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:           userRepository,
		EmployeeRepository:       employeeRepository,
		TokenBlacklistRepository: blacklistRepository,
		Service:                  jwtService,
		clock:                    clk,
	}
}

// HashPassword returns the bcrypt hash stored in users.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		slog.InfoContext(ctx, "login rejected", "user_id", userData.ID)
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	info := auth.UserInfo{
		ID:           userData.ID,
		Email:        userData.Email,
		Role:         string(userData.Role),
		EmployeeCode: userData.EmployeeCode,
	}
	if userData.EmployeeCode != "" {
		emp, err := a.EmployeeRepository.GetByCode(ctx, userData.EmployeeCode)
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			slog.WarnContext(ctx, "login rejected: employee record missing", "user_id", userData.ID, "employee_code", userData.EmployeeCode)
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		if err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to load employee for user: %w", err)
		}
		info.FullName = emp.FullName
		info.Department = emp.Department
		info.Position = emp.Position
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(jwt.Principal{
		UserID:       userData.ID,
		Email:        userData.Email,
		Role:         userData.Role,
		EmployeeCode: userData.EmployeeCode,
	})
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        info,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.LogoutRequest) error {
	if req.Token == "" {
		return auth.ErrInvalidToken
	}

	expiresAt := time.Unix(req.ExpiresAt, 0)
	if req.ExpiresAt == 0 {
		expiresAt = clock.Now(a.clock).Add(24 * time.Hour)
	}

	if err := a.TokenBlacklistRepository.Revoke(ctx, req.Token, expiresAt); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// IsRevoked implements auth.AuthService.
func (a *AuthServiceImpl) IsRevoked(ctx context.Context, token string) (bool, error) {
	return a.TokenBlacklistRepository.IsRevoked(ctx, token)
}

// PurgeExpired implements auth.AuthService.
func (a *AuthServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := a.TokenBlacklistRepository.DeleteExpired(ctx, clock.Now(a.clock))
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		slog.InfoContext(ctx, "purged expired blacklisted tokens", "count", deleted)
	}
	return deleted, nil
}
