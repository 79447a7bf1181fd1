// Package auth authenticates calling services on the inspector API.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "fraudgate/pkg/domain-errors"
	"fraudgate/pkg/platform/httputil"
	"fraudgate/pkg/requestcontext"
)

// JWTValidator checks a raw bearer token.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims is what the middleware needs from a verified token.
type JWTClaims struct {
	Caller string
	JTI    string
}

var (
	errMissingToken = dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header")
	errInvalidToken = dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
)

func bearer(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth admits only requests carrying a token the validator accepts and
// stores the caller on the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := bearer(r)
			if token == "" {
				logger.WarnContext(ctx, "rejected request without bearer token",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, errMissingToken)
				return
			}
			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "rejected request with invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, errInvalidToken)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(ctx, claims.Caller)))
		})
	}
}
