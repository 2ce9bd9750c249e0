package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/httputil"
)

// SessionHandler exposes report editing sessions. Every edit is a command
// posted to the session; the response carries the new state.
type SessionHandler struct {
	sessions docsysSvc.SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions docsysSvc.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

type openSessionRequest struct {
	ReportID string `json:"reportId,omitempty"`
}

// OpenSession starts a blank session or loads a saved report
// POST /api/sessions
func (h *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if r.ContentLength != 0 {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	session, err := h.sessions.Open(r.Context(), httputil.GetUserID(r), req.ReportID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, session)
}

// GetSession returns the session state
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, session)
}

// ExecuteCommand applies one editing command
// POST /api/sessions/{id}/commands
func (h *SessionHandler) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	var cmd docsysSvc.Command
	if err := httputil.ParseJSON(w, r, &cmd); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.sessions.Execute(r.Context(), httputil.GetUserID(r), r.PathValue("id"), &cmd)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ListFolders returns the report's folders with their paths
// GET /api/sessions/{id}/folders
func (h *SessionHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.sessions.Folders(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// SaveSession stores the session as a report
// POST /api/sessions/{id}/save
func (h *SessionHandler) SaveSession(w http.ResponseWriter, r *http.Request) {
	report, err := h.sessions.Save(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}

// ExportSession downloads the assembled report
// GET /api/sessions/{id}/export?format=text|html
func (h *SessionHandler) ExportSession(w http.ResponseWriter, r *http.Request) {
	format := docsysSvc.ExportFormat(r.URL.Query().Get("format"))

	export, err := h.sessions.Export(r.Context(), httputil.GetUserID(r), r.PathValue("id"), format)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondFile(w, export.ContentType, export.FileName, []byte(export.Body))
}

// CloseSession drops the session
// DELETE /api/sessions/{id}
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(r.Context(), httputil.GetUserID(r), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
