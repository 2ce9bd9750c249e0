package handler

import (
	"log/slog"
	"net/http"

	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/httputil"
)

// DocumentHandler serves the shared document library: its tree, search
// over it and the user's uploads, and document bodies
type DocumentHandler struct {
	documents      docsysSvc.DocumentLibrary
	uploadsService docsysSvc.UploadsService
	treeService    docsysSvc.TreeService
	contentService docsysSvc.DocumentContentService
	logger         *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	documents docsysSvc.DocumentLibrary,
	uploadsService docsysSvc.UploadsService,
	treeService docsysSvc.TreeService,
	contentService docsysSvc.DocumentContentService,
	logger *slog.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		documents:      documents,
		uploadsService: uploadsService,
		treeService:    treeService,
		contentService: contentService,
		logger:         logger,
	}
}

// HealthCheck handles health check requests
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"documents": h.documents.Pool().Len(),
	})
}

// GetTree returns the nested document library
// GET /api/documents/tree
func (h *DocumentHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.treeService.BuildTree(h.documents.Pool()))
}

// SearchDocuments filters the library or the user's uploads.
// GET /api/documents/search
//
// Query parameters:
//   - q: substring to look for, case-insensitive
//   - fields: optional, comma-separated subset of name,description,content
//   - source: "library" (default) or "uploads"
func (h *DocumentHandler) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	pool := h.documents.Pool()
	switch source := r.URL.Query().Get("source"); source {
	case "", "library":
	case "uploads":
		uploads, err := h.uploadsService.Pool(r.Context(), httputil.GetUserID(r))
		if err != nil {
			handleError(w, h.logger, err)
			return
		}
		pool = uploads
	default:
		httputil.RespondError(w, http.StatusBadRequest, "source must be library or uploads")
		return
	}

	opts := models.SearchOptions{Query: r.URL.Query().Get("q")}
	for _, f := range httputil.QueryList(r, "fields") {
		opts.Fields = append(opts.Fields, models.SearchField(f))
	}

	hits, err := h.treeService.SearchTree(pool, opts)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, hits)
}

// GetDocument returns a document's metadata
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	node, err := h.contentService.Find(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

// GetContent returns a document's body: text for convertible formats, the
// original bytes otherwise
// GET /api/documents/{id}/content
func (h *DocumentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.contentService.GetContent(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if content.Raw != nil {
		httputil.RespondFile(w, content.ContentType, content.FileName, content.Raw)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":      content.Document.ID,
		"name":    content.Document.Name,
		"content": content.Text,
	})
}

// Rescan rebuilds the document library from disk
// POST /api/documents/rescan
func (h *DocumentHandler) Rescan(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.Rescan(r.Context()); err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.logger.Info("document library rescanned on request", "documents", h.documents.Pool().Len())
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": h.documents.Pool().Len(),
	})
}
