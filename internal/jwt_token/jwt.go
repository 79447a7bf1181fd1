// Package jwttoken issues and validates the HMAC-signed service tokens that
// callers of the inspector API present.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "fraudgate/pkg/domain-errors"
	authmw "fraudgate/pkg/platform/middleware/auth"
)

// ScopeInspect is the only scope the inspector API accepts.
const ScopeInspect = "inspect"

// Claims represents the JWT claims of a service token. The subject names the
// calling service.
type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// JWTService handles service token creation and validation.
type JWTService struct {
	signingKey []byte
	audience   string
}

func NewJWTService(signingKey string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		audience:   audience,
	}
}

// IssueServiceToken signs a token for service. Used by tooling and tests;
// the inspector itself only validates.
func (s *JWTService) IssueServiceToken(service string, expiresIn time.Duration) (string, error) {
	return s.issue(service, ScopeInspect, expiresIn)
}

func (s *JWTService) issue(service, scope string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   service,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithAudience(s.audience), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Scope != ScopeInspect {
		return nil, dErrors.Newf(dErrors.CodeUnauthorized, "scope %q cannot inspect", claims.Scope)
	}
	return claims, nil
}

// Validator adapts JWTService to the auth middleware.
type Validator struct {
	service *JWTService
}

func NewValidator(service *JWTService) *Validator {
	return &Validator{service: service}
}

func (v *Validator) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := v.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{Caller: claims.Subject, JTI: claims.ID}, nil
}
