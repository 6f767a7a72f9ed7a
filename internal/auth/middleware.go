package auth

import (
	"context"
	"fmt"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Middleware verifies the session token on protected routes and stores the
// authenticated user id in the request context.
func Middleware(jwtSecret string) func(http.Handler) http.Handler {
	if jwtSecret == "" {
		panic("auth middleware requires a JWT secret")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			userID, err := VerifyToken(tokenString, jwtSecret)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid token: %v", err), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated user id set by Middleware.
func UserID(ctx context.Context) string {
	if uid, ok := ctx.Value(userIDKey).(string); ok {
		return uid
	}
	return ""
}
