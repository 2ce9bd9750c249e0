package middleware

import (
	"net/http"
	"strings"

	"reportdesk/internal/httputil"
)

// Identity puts the caller's user id into the request context. The id comes
// from the X-User-ID header, or fallbackUserID when the header is absent.
// With no fallback, a missing header is a 401. Paths outside /api/ pass
// through untouched.
func Identity(fallbackUserID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			userID := strings.TrimSpace(r.Header.Get(httputil.UserIDHeader))
			if userID == "" {
				userID = fallbackUserID
			}
			if userID == "" {
				httputil.RespondError(w, http.StatusUnauthorized, httputil.UserIDHeader+" header is required")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}
