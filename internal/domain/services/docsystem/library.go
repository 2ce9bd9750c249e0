package docsystem

import (
	"context"

	models "reportdesk/internal/domain/models/docsystem"
)

// CreateDirectoryRequest represents a new report-library directory
type CreateDirectoryRequest struct {
	UserID   string `json:"-"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"` // empty for top level
}

// RenameResult reports a rename so callers can show "renamed from X to Y"
type RenameResult struct {
	ID      string `json:"id"`
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// LibraryService manages a user's report library: the forest of reusable
// directory templates that ApplyEngine copies from
type LibraryService interface {
	// GetLibrary returns the user's library, seeded from templates on first use
	GetLibrary(ctx context.Context, userID string) (models.Forest, error)

	// CreateDirectory adds an empty folder at the top level or inside a
	// library folder
	CreateDirectory(ctx context.Context, req *CreateDirectoryRequest) (*models.ReportFolder, error)

	// RenameDirectory trims and sets a directory name
	RenameDirectory(ctx context.Context, userID, id, name string) (*RenameResult, error)

	// DeleteDirectory removes every node carrying id, with its subtree
	DeleteDirectory(ctx context.Context, userID, id string) error
}

// DocumentLibrary serves the shared, scanned document library.
// Re-scans replace the pool wholesale.
type DocumentLibrary interface {
	// Pool returns the current snapshot. Callers must not mutate it.
	Pool() *models.DocumentPool

	// Rescan rebuilds the pool from storage
	Rescan(ctx context.Context) error
}
