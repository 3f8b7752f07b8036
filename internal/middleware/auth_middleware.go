package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"testgram/internal/auth"
	"testgram/internal/config"
	"testgram/internal/logging"
)

// contextKey 是用于在 context.Context 中存储值的自定义类型，以避免键冲突。
type contextKey string

const (
	// UserIDKey 是用于在上下文中存储用户ID的键。
	UserIDKey contextKey = "userID"
	// UsernameKey 是用于在上下文中存储用户名的键。
	UsernameKey contextKey = "username"
	// ClaimsKey holds the validated *auth.Claims of the request.
	ClaimsKey contextKey = "claims"
	// RequestIDKey holds the request id assigned by RequestID.
	RequestIDKey contextKey = "requestID"

	userIDSinkKey contextKey = "userIDSink"
)

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// AuthMiddleware validates the bearer token of every request and stores the
// caller in the request context. Revoked tokens are rejected through
// blacklist when it is non-nil.
func AuthMiddleware(authCfg config.AuthConfig, blacklist auth.TokenBlacklist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, "authentication credentials were not provided", http.StatusUnauthorized)
				return
			}

			headerParts := strings.Fields(authHeader)
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				writeJSONError(w, "authorization header must be 'Bearer {token}'", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ValidateToken(r.Context(), headerParts[1], authCfg, blacklist)
			if err != nil {
				if !errors.Is(err, auth.ErrTokenInvalid) && !errors.Is(err, auth.ErrTokenRevoked) {
					logging.Log.WithError(err).Error("token validation failed")
				}
				writeJSONError(w, "invalid or revoked token", http.StatusUnauthorized)
				return
			}

			if sink, ok := r.Context().Value(userIDSinkKey).(*uint); ok {
				*sink = claims.UserID
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext 从上下文中获取用户ID。
// 如果用户ID不存在或类型不正确，返回0和false。
func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	return userID, ok
}

// GetClaimsFromContext returns the validated token claims of the request.
func GetClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims, ok
}
