package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"reportdesk/internal/content"
	"reportdesk/internal/domain"
	"reportdesk/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses. Conflicts carry
// the id of the existing resource so the UI can point at it.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var conflictErr *domain.ConflictError

	status := domain.StatusFor(err)
	if errors.Is(err, content.ErrTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}

	switch {
	case errors.As(err, &conflictErr):
		extras := map[string]interface{}{}
		if conflictErr.ResourceType != "" {
			extras["resourceType"] = conflictErr.ResourceType
		}
		if conflictErr.ResourceID != "" {
			extras["resourceId"] = conflictErr.ResourceID
		}
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), extras)
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, status, "internal server error")
	default:
		httputil.RespondError(w, status, err.Error())
	}
}
