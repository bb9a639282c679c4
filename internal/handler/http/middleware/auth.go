package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	rawTokenKey  contextKey = "raw_token"
)

type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthRequired rejects requests without a valid, unrevoked access token and
// stores the caller's Principal in the request context. It must run after
// jwtauth.Verify.
func AuthRequired(revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, r, auth.ErrInvalidToken)
				return
			}

			principal, err := jwt.PrincipalFromClaims(claims)
			if err != nil {
				response.HandleError(w, r, auth.ErrInvalidToken)
				return
			}

			raw := jwtauth.TokenFromHeader(r)
			revoked, err := revocations.IsRevoked(r.Context(), raw)
			if err != nil {
				response.HandleError(w, r, err)
				return
			}
			if revoked {
				response.HandleError(w, r, auth.ErrTokenRevoked)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			ctx = context.WithValue(ctx, rawTokenKey, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// GetPrincipal returns the caller stored by AuthRequired.
func GetPrincipal(ctx context.Context) (jwt.Principal, bool) {
	p, ok := ctx.Value(principalKey).(jwt.Principal)
	return p, ok
}

// WithPrincipal stores p the way AuthRequired does.
func WithPrincipal(ctx context.Context, p jwt.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetRawToken returns the bearer token of the current request.
func GetRawToken(ctx context.Context) string {
	raw, _ := ctx.Value(rawTokenKey).(string)
	return raw
}
