// internal/api/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"tokentrade/internal/service"
)

type contextKey string

const userIDKey contextKey = "userID"

// ExtractBearer returns the token from an "Authorization: Bearer ..." header,
// or "" if the header is missing or malformed.
func ExtractBearer(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authenticator validates the bearer token on every request and places the
// authenticated user ID in the request context.
func Authenticator(authService service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ExtractBearer(r.Header.Get("Authorization"))
			if tokenString == "" {
				http.Error(w, `{"error": "missing or malformed authorization header"}`, http.StatusUnauthorized)
				return
			}

			userID, err := authService.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, `{"error": "invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user ID placed by Authenticator.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
