package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/handler/http/response"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.WarnContext(r.Context(), "Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "User logged in successfully", "user_id", tokenResponse.User.ID)
	response.SuccessWithMessage(w, "Login successful", tokenResponse)
}

// Logout implements AuthHandler. The current bearer token is revoked until
// it would have expired anyway.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.HandleError(w, r, auth.ErrInvalidToken)
		return
	}

	err := a.authService.Logout(r.Context(), auth.LogoutRequest{
		Token:     middleware.GetRawToken(r.Context()),
		ExpiresAt: principal.ExpiresAt.Unix(),
	})
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Logged out successfully", nil)
}
