package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/alertflow/alertflow/internal/auth"
	"github.com/alertflow/alertflow/internal/domain/activity"
)

// ContextKey is a custom type for context keys
type ContextKey string

// UserIDKey is the context key for user ID
const UserIDKey ContextKey = "userID"

// OptionalAuthMiddleware attaches the bearer token's user to the request when
// the token is valid and lets every other request through anonymously.
// Handlers decide which actions need a user.
func OptionalAuthMiddleware(jwtSecret, audience string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenStr := bearerToken(r); tokenStr != "" {
				if claims, err := auth.ParseClaims(tokenStr, jwtSecret, audience); err == nil {
					r = withClaims(w, r, claims)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func withClaims(w http.ResponseWriter, r *http.Request, claims *auth.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)

	AddLogField(w, "user_id", claims.Subject)
	return r.WithContext(ctx)
}

// GetUserID extracts the user ID from the request context
func GetUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// Actor describes the caller for services and the activity log. The user ID
// is empty for anonymous requests.
func Actor(r *http.Request) activity.Actor {
	userID, _ := GetUserID(r)
	return activity.Actor{
		UserID:    userID,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// clientIP expects chi's RealIP to have already replaced RemoteAddr
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
