package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mediarating/backend/internal/models"
)

// TokenValidator verifies admin bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*models.Claims, error)
}

// AuthMiddleware validates the bearer token and stores the admin claims in context
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SuperAdminMiddleware rejects requests whose claims lack super admin rights.
// It must run after AuthMiddleware.
func SuperAdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !claims.IsSuperAdmin {
			writeJSONError(w, http.StatusForbidden, "super admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims retrieves the admin claims from context
func GetClaims(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*models.Claims)
	return claims, ok && claims != nil
}

// WithClaims returns a context carrying the given claims
func WithClaims(ctx context.Context, claims *models.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
