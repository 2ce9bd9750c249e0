package handler

import (
	"log/slog"
	"net/http"

	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/httputil"
)

// ReportHandler handles saved report HTTP requests
type ReportHandler struct {
	reportService docsysSvc.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService docsysSvc.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// ListReports returns the user's report summaries
// GET /api/reports
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportService.ListReports(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, reports)
}

// CreateReport saves a report built outside a session
// POST /api/reports
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.SaveReportRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ID = ""
	req.UserID = httputil.GetUserID(r)

	report, err := h.reportService.SaveReport(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, report)
}

// UpdateReport replaces a saved report
// PUT /api/reports/{id}
func (h *ReportHandler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.SaveReportRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ID = r.PathValue("id")
	req.UserID = httputil.GetUserID(r)

	report, err := h.reportService.SaveReport(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}

// GetReport returns a saved report
// GET /api/reports/{id}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.GetReport(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}

// DeleteReport removes a saved report
// DELETE /api/reports/{id}
func (h *ReportHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := h.reportService.DeleteReport(r.Context(), r.PathValue("id"), httputil.GetUserID(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddAttachment attaches file metadata to a report
// POST /api/reports/{id}/attachments
func (h *ReportHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.AddAttachmentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ReportID = r.PathValue("id")
	req.UserID = httputil.GetUserID(r)

	file, err := h.reportService.AddAttachment(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// RemoveAttachment drops an attachment
// DELETE /api/reports/{id}/attachments/{kind}/{fileId}
func (h *ReportHandler) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	err := h.reportService.RemoveAttachment(
		r.Context(),
		r.PathValue("id"),
		httputil.GetUserID(r),
		models.AttachmentKind(r.PathValue("kind")),
		r.PathValue("fileId"),
	)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
