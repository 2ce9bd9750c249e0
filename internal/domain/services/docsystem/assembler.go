package docsystem

import (
	"context"
	"time"

	models "reportdesk/internal/domain/models/docsystem"
)

// ReportAssembler serializes a finished report structure to text
type ReportAssembler interface {
	// Serialize checks ErrEmptyName, ErrEmptyStructure and ErrNoDocuments in
	// that order, then renders the title block and the structure in
	// pre-order with heading level = depth + 2.
	Serialize(structure models.Forest, reportName string, generatedAt time.Time) (string, error)

	// FileName returns the download name for a report
	FileName(reportName string) string
}

// ReportRenderer turns assembled report text into a sanitized HTML page
type ReportRenderer interface {
	RenderHTML(ctx context.Context, reportName, text string) (string, error)
}
