package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/httputil"
)

// LibraryHandler handles report-library HTTP requests
type LibraryHandler struct {
	libraryService docsysSvc.LibraryService
	logger         *slog.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(libraryService docsysSvc.LibraryService, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{
		libraryService: libraryService,
		logger:         logger,
	}
}

type renameRequest struct {
	Name string `json:"name"`
}

// GetLibrary returns the user's report library
// GET /api/library
func (h *LibraryHandler) GetLibrary(w http.ResponseWriter, r *http.Request) {
	library, err := h.libraryService.GetLibrary(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, library)
}

// CreateDirectory adds a directory template
// POST /api/library/directories
func (h *LibraryHandler) CreateDirectory(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.CreateDirectoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = httputil.GetUserID(r)

	dir, err := h.libraryService.CreateDirectory(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, dir)
}

// RenameDirectory renames a directory template
// PATCH /api/library/directories/{id}
func (h *LibraryHandler) RenameDirectory(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.libraryService.RenameDirectory(r.Context(), httputil.GetUserID(r), r.PathValue("id"), req.Name)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// DeleteDirectory removes a directory template and its subtree
// DELETE /api/library/directories/{id}
func (h *LibraryHandler) DeleteDirectory(w http.ResponseWriter, r *http.Request) {
	if err := h.libraryService.DeleteDirectory(r.Context(), httputil.GetUserID(r), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
