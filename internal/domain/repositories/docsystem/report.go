package docsystem

import (
	"context"

	models "reportdesk/internal/domain/models/docsystem"
)

// ReportRepository defines data access operations for saved reports
type ReportRepository interface {
	// Create inserts a report. ID, CreatedAt and UpdatedAt must be set.
	Create(ctx context.Context, report *models.Report) error

	// Update replaces name, structure and attachments and bumps UpdatedAt.
	// CreatedAt is never written.
	Update(ctx context.Context, report *models.Report) error

	// GetByID retrieves a report owned by userID
	GetByID(ctx context.Context, id, userID string) (*models.Report, error)

	// ListByUser returns summaries, most recently updated first
	ListByUser(ctx context.Context, userID string) ([]models.ReportSummary, error)

	// Delete removes a report; ErrNotFound when nothing was deleted
	Delete(ctx context.Context, id, userID string) error
}
