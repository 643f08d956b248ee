package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"chargehub/internal/service"
)

type contextKey string

const (
	principalIDKey contextKey = "principalID"
	rawTokenKey    contextKey = "rawToken"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*service.Claims, error)
}

// RevocationChecker reports whether a token was invalidated by a logout.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware validates bearer JWTs, rejects revoked tokens and stores the
// principal identifier in the request context.
func AuthMiddleware(validator TokenValidator, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimSpace(parts[1])

			claims, err := validator.ValidateToken(tokenStr)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsTokenRevoked(r.Context(), tokenStr)
				if err != nil {
					http.Error(w, "authorization check failed", http.StatusInternalServerError)
					return
				}
				if revoked {
					http.Error(w, "token revoked", http.StatusUnauthorized)
					return
				}
			}

			principalID, err := claims.PrincipalID()
			if err != nil {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalIDKey, principalID)
			ctx = context.WithValue(ctx, rawTokenKey, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext retrieves the authenticated principal id.
func PrincipalFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(principalIDKey).(uuid.UUID)
	return id, ok
}

// TokenFromContext retrieves the raw bearer token of the request.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(rawTokenKey).(string)
	return token, ok
}
