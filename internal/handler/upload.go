package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"reportdesk/internal/config"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/httputil"
)

// UploadHandler handles the per-user uploads pool
type UploadHandler struct {
	uploadsService docsysSvc.UploadsService
	treeService    docsysSvc.TreeService
	logger         *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadsService docsysSvc.UploadsService, treeService docsysSvc.TreeService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploadsService: uploadsService,
		treeService:    treeService,
		logger:         logger,
	}
}

type confirmUploadRequest struct {
	ServerID string `json:"serverId"`
}

// ListUploads returns the user's uploads as a tree view
// GET /api/uploads
func (h *UploadHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	pool, err := h.uploadsService.Pool(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.treeService.BuildTree(pool))
}

// AddUpload stages one file.
// POST /api/uploads (multipart)
//
// Form fields:
//   - file: required
//   - description: optional
//   - url: optional, where the original file can be fetched later
func (h *UploadHandler) AddUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read uploaded file", "file", header.Filename, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read file %s", header.Filename))
		return
	}

	node, err := h.uploadsService.Add(r.Context(), &docsysSvc.AddUploadRequest{
		UserID:      httputil.GetUserID(r),
		Filename:    header.Filename,
		Content:     body,
		Description: r.FormValue("description"),
		URL:         r.FormValue("url"),
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, node)
}

// RenameUpload renames a staged file
// PATCH /api/uploads/{id}
func (h *UploadHandler) RenameUpload(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.uploadsService.Rename(r.Context(), httputil.GetUserID(r), r.PathValue("id"), req.Name)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ConfirmUpload records the id the storage backend assigned to the file
// POST /api/uploads/{id}/confirm
func (h *UploadHandler) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	var req confirmUploadRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	node, err := h.uploadsService.Confirm(r.Context(), httputil.GetUserID(r), r.PathValue("id"), req.ServerID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

// DeleteUpload removes a staged file
// DELETE /api/uploads/{id}
func (h *UploadHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	if err := h.uploadsService.Delete(r.Context(), httputil.GetUserID(r), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
