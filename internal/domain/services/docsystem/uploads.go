package docsystem

import (
	"context"

	models "reportdesk/internal/domain/models/docsystem"
)

// AddUploadRequest stages a file in the user's uploads pool
type AddUploadRequest struct {
	UserID      string
	Filename    string
	Content     []byte
	FileType    string // optional, derived from the extension when empty
	Description string
	URL         string // published path of the stored file, /uploads/<user>/...
}

// UploadsService manages the per-user flat uploads pool.
// Every upload sits at the top level; there are no sub-folders.
type UploadsService interface {
	// Pool returns the user's uploads as a document pool
	Pool(ctx context.Context, userID string) (*models.DocumentPool, error)

	// Add stages a file with status LOCAL. Textual formats are decoded into
	// Content; other formats keep only their metadata. A URL must be a path
	// under the user's own uploads.
	Add(ctx context.Context, req *AddUploadRequest) (*models.DocumentNode, error)

	Get(ctx context.Context, userID, id string) (*models.DocumentNode, error)

	Rename(ctx context.Context, userID, id, name string) (*RenameResult, error)

	Delete(ctx context.Context, userID, id string) error

	// Confirm replaces the LOCAL status with the backend-assigned id
	Confirm(ctx context.Context, userID, id, serverID string) (*models.DocumentNode, error)
}

// ContentResolver fetches the content of a document that only carries a URL
type ContentResolver interface {
	Resolve(ctx context.Context, node *models.DocumentNode) ([]byte, error)
}

// DocumentContent is the body of one document. Text is set when the file
// has a text converter; Raw otherwise.
type DocumentContent struct {
	Document    *models.DocumentNode
	FileName    string // the stored file's name, with its extension
	Text        string
	Raw         []byte
	ContentType string
}

// DocumentContentService looks a document up in the shared library or the
// user's uploads and reads its body on demand
type DocumentContentService interface {
	// Find returns the document with id, searching the library first
	Find(ctx context.Context, userID, id string) (*models.DocumentNode, error)

	GetContent(ctx context.Context, userID, id string) (*DocumentContent, error)
}
