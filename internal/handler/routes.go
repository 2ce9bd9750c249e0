package handler

import (
	"net/http"
	"strings"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Sessions  *SessionHandler
	Library   *LibraryHandler
	Uploads   *UploadHandler
	Reports   *ReportHandler
	Documents *DocumentHandler
}

// StaticDir publishes a directory of document files under a URL prefix
type StaticDir struct {
	Prefix string // e.g. "/files/library"
	Dir    string
}

// NewRouter registers the API routes and static file trees (Go 1.22+
// method and wildcard patterns)
func NewRouter(h Handlers, static ...StaticDir) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", h.Documents.HealthCheck)

	// Editing sessions
	mux.HandleFunc("POST /api/sessions", h.Sessions.OpenSession)
	mux.HandleFunc("GET /api/sessions/{id}", h.Sessions.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.Sessions.CloseSession)
	mux.HandleFunc("POST /api/sessions/{id}/commands", h.Sessions.ExecuteCommand)
	mux.HandleFunc("GET /api/sessions/{id}/folders", h.Sessions.ListFolders)
	mux.HandleFunc("POST /api/sessions/{id}/save", h.Sessions.SaveSession)
	mux.HandleFunc("GET /api/sessions/{id}/export", h.Sessions.ExportSession)

	// Report library
	mux.HandleFunc("GET /api/library", h.Library.GetLibrary)
	mux.HandleFunc("POST /api/library/directories", h.Library.CreateDirectory)
	mux.HandleFunc("PATCH /api/library/directories/{id}", h.Library.RenameDirectory)
	mux.HandleFunc("DELETE /api/library/directories/{id}", h.Library.DeleteDirectory)

	// Uploads pool
	mux.HandleFunc("GET /api/uploads", h.Uploads.ListUploads)
	mux.HandleFunc("POST /api/uploads", h.Uploads.AddUpload)
	mux.HandleFunc("PATCH /api/uploads/{id}", h.Uploads.RenameUpload)
	mux.HandleFunc("DELETE /api/uploads/{id}", h.Uploads.DeleteUpload)
	mux.HandleFunc("POST /api/uploads/{id}/confirm", h.Uploads.ConfirmUpload)

	// Saved reports
	mux.HandleFunc("GET /api/reports", h.Reports.ListReports)
	mux.HandleFunc("POST /api/reports", h.Reports.CreateReport)
	mux.HandleFunc("GET /api/reports/{id}", h.Reports.GetReport)
	mux.HandleFunc("PUT /api/reports/{id}", h.Reports.UpdateReport)
	mux.HandleFunc("DELETE /api/reports/{id}", h.Reports.DeleteReport)
	mux.HandleFunc("POST /api/reports/{id}/attachments", h.Reports.AddAttachment)
	mux.HandleFunc("DELETE /api/reports/{id}/attachments/{kind}/{fileId}", h.Reports.RemoveAttachment)

	// Document library
	mux.HandleFunc("GET /api/documents/tree", h.Documents.GetTree)
	mux.HandleFunc("GET /api/documents/search", h.Documents.SearchDocuments)
	mux.HandleFunc("POST /api/documents/rescan", h.Documents.Rescan)
	mux.HandleFunc("GET /api/documents/{id}", h.Documents.GetDocument)
	mux.HandleFunc("GET /api/documents/{id}/content", h.Documents.GetContent)

	for _, s := range static {
		prefix := "/" + strings.Trim(s.Prefix, "/")
		mux.Handle("GET "+prefix+"/", http.StripPrefix(prefix, http.FileServer(http.Dir(s.Dir))))
	}

	return mux
}
