package docsystem

import (
	"context"

	models "reportdesk/internal/domain/models/docsystem"
)

// LibraryRepository stores each user's report library as one forest
type LibraryRepository interface {
	// Get returns the user's library, or ErrNotFound when none was ever
	// saved. Inside a transaction the row stays locked until commit.
	Get(ctx context.Context, userID string) (models.Forest, error)

	// Save replaces the user's library
	Save(ctx context.Context, userID string, library models.Forest) error
}
