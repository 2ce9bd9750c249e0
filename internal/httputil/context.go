package httputil

import (
	"context"
	"net/http"
)

// UserIDHeader carries the caller's identity. It is trusted as is; the
// server sits behind a gateway that sets it.
const UserIDHeader = "X-User-ID"

type userIDKey struct{}

// ContextWithUserID returns a copy of ctx that carries userID
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the identity stored by ContextWithUserID, or ""
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey{}).(string)
	return userID
}

// WithUserID attaches userID to the request
func WithUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(ContextWithUserID(r.Context(), userID))
}

// GetUserID is the identity of the request, "" before Identity ran
func GetUserID(r *http.Request) string {
	return UserIDFromContext(r.Context())
}
