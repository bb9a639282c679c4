package auth

import "github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/validator"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validator.Struct(r)
}

// LogoutRequest carries the bearer token being revoked and its exp claim.
type LogoutRequest struct {
	Token     string
	ExpiresAt int64
}

type UserInfo struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	EmployeeCode string  `json:"employeeCode"`
	FullName     string  `json:"fullName"`
	Department   *string `json:"department"`
	Position     *string `json:"position"`
}

type TokenResponse struct {
	AccessToken string   `json:"accessToken"`
	ExpiresAt   int64    `json:"expiresAt"`
	User        UserInfo `json:"user"`
}
