package auth

import (
	"net/http"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(apperror.CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrInvalidToken       = apperror.New(apperror.CodeUnauthorized, "Invalid or expired token", http.StatusUnauthorized)
	ErrTokenRevoked       = apperror.New(apperror.CodeUnauthorized, "Token has been revoked", http.StatusUnauthorized)
)
