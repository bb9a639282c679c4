package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/clock"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

var ErrInvalidClaims = errors.New("token claims are missing or malformed")

// Principal is the authenticated caller carried by an access token.
type Principal struct {
	UserID       int64
	Email        string
	Role         user.Role
	EmployeeCode string
	TokenID      string
	ExpiresAt    time.Time
}

type Service interface {
	GenerateAccessToken(p Principal) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	clock                 clock.Clock
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration, clk clock.Clock) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		clock:                 clk,
	}
}

// GenerateAccessToken signs an access token for p. A fresh jti is assigned so
// each token can be revoked on its own.
func (j *JWTService) GenerateAccessToken(p Principal) (token string, expiresAt int64, err error) {
	now := clock.Now(j.clock)
	expiresAt = now.Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"sub":           strconv.FormatInt(p.UserID, 10),
		"email":         p.Email,
		"role":          string(p.Role),
		"employee_code": p.EmployeeCode,
		"type":          TokenTypeAccess,
		"jti":           uuid.NewString(),
		"iat":           now.Unix(),
		"exp":           expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// PrincipalFromClaims reads an access token's claims as returned by
// jwtauth.FromContext.
func PrincipalFromClaims(claims map[string]interface{}) (Principal, error) {
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeAccess {
		return Principal{}, ErrInvalidClaims
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: sub", ErrInvalidClaims)
	}

	roleStr, _ := claims["role"].(string)
	role, ok := user.ParseRole(roleStr)
	if !ok {
		return Principal{}, fmt.Errorf("%w: role", ErrInvalidClaims)
	}

	p := Principal{UserID: userID, Role: role}
	p.Email, _ = claims["email"].(string)
	p.EmployeeCode, _ = claims["employee_code"].(string)
	p.TokenID, _ = claims["jti"].(string)

	switch exp := claims["exp"].(type) {
	case time.Time:
		p.ExpiresAt = exp
	case float64:
		p.ExpiresAt = time.Unix(int64(exp), 0)
	case int64:
		p.ExpiresAt = time.Unix(exp, 0)
	}

	return p, nil
}
