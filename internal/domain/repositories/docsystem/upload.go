package docsystem

import (
	"context"

	models "reportdesk/internal/domain/models/docsystem"
)

// UploadRepository stores the per-user uploads pool. Uploads are flat:
// ParentID is always nil.
type UploadRepository interface {
	Create(ctx context.Context, userID string, node *models.DocumentNode) error

	GetByID(ctx context.Context, id, userID string) (*models.DocumentNode, error)

	// ListByUser returns the user's uploads in upload order
	ListByUser(ctx context.Context, userID string) ([]*models.DocumentNode, error)

	// UpdateMetadata writes name, description and status
	UpdateMetadata(ctx context.Context, userID string, node *models.DocumentNode) error

	Delete(ctx context.Context, id, userID string) error
}
