package docsystem

import (
	"context"

	models "reportdesk/internal/domain/models/docsystem"
)

// SaveReportRequest creates a report (empty ID) or replaces an existing one
type SaveReportRequest struct {
	ID            string                `json:"id,omitempty"`
	UserID        string                `json:"-"`
	Name          string                `json:"name"`
	Structure     models.Forest         `json:"structure"`
	StyleDocFiles []models.UploadedFile `json:"styleDocFiles,omitempty"`
	BiddingFiles  []models.UploadedFile `json:"biddingFiles,omitempty"`
}

// AddAttachmentRequest attaches file metadata to a saved report
type AddAttachmentRequest struct {
	ReportID string                `json:"-"`
	UserID   string                `json:"-"`
	Kind     models.AttachmentKind `json:"kind"`
	Name     string                `json:"name"`
	Size     int64                 `json:"size"`
	Type     string                `json:"type"`
	Content  string                `json:"content,omitempty"`
}

// ReportService stores whole report aggregates
type ReportService interface {
	// SaveReport rejects a blank name or an empty structure. Updates keep
	// the original CreatedAt.
	SaveReport(ctx context.Context, req *SaveReportRequest) (*models.Report, error)

	GetReport(ctx context.Context, id, userID string) (*models.Report, error)

	// ListReports returns summaries, most recently updated first
	ListReports(ctx context.Context, userID string) ([]models.ReportSummary, error)

	DeleteReport(ctx context.Context, id, userID string) error

	AddAttachment(ctx context.Context, req *AddAttachmentRequest) (*models.UploadedFile, error)

	RemoveAttachment(ctx context.Context, reportID, userID string, kind models.AttachmentKind, fileID string) error
}
