package middleware

import (
	"context"
	"net/http"

	"storefront/internal/session"

	"go.uber.org/zap"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Auth resolves the session cookie to a user id and makes it available
// through GetUserID. Requests without a valid session are rejected with
// a bare 401 and an empty body; the response never says which check
// failed.
func Auth(sessions session.Manager, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				logger.Debug("Missing session cookie", zap.String("path", r.URL.Path))
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			userID, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				if err != session.ErrSessionNotFound {
					logger.Error("Session lookup failed", zap.Error(err))
				}
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user id from the request context
func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}
