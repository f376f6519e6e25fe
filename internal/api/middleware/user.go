package middleware

import (
	"context"
	"net/http"
)

const userIDKey contextKey = "user_id"

// UserID reads the X-User-ID header set by the upstream auth/session
// collaborator (session lookup itself is out of scope here) and stores it
// on the request context for handlers to use as the task-ownership scope.
func UserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), userIDKey, r.Header.Get("X-User-ID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID retrieves the caller id stored by UserID. Returns an empty
// string if the middleware was not applied or the header was absent.
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}
