package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dermalens/backend/utils"
)

type contextKey string

const userIDKey contextKey = "user_id"

// CORSMiddleware sets permissive CORS headers and answers preflights.
func CORSMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

// AuthMiddleware validates the Bearer token and puts the user id on the
// request context.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(w, nil, "Missing or invalid Authorization header", http.StatusUnauthorized)
			return
		}

		userID, err := utils.UserIDFromToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.RespondError(w, nil, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext returns the authenticated user's id hex string.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}
