package docsystem

import (
	models "reportdesk/internal/domain/models/docsystem"
)

// ApplyTarget picks where template copies land in the report structure.
// The zero value targets the top level.
type ApplyTarget struct {
	FolderID string `json:"folderId,omitempty"`
}

// IsRoot reports whether the target is the top level of the structure
func (t ApplyTarget) IsRoot() bool {
	return t.FolderID == ""
}

// ApplyResult is the outcome of a batch apply
type ApplyResult struct {
	Structure models.Forest `json:"structure"`
	Applied   int           `json:"applied"`
}

// ApplyEngine copies report-library templates into a report structure.
//
// Every method leaves the input structure untouched and returns a new one.
// On error the returned structure is the input, unchanged.
type ApplyEngine interface {
	// ApplySingle deep-copies a library folder with fresh ids, renames the
	// copy to newName and inserts it at target.
	ApplySingle(libraryNode models.ReportNode, newName string, target ApplyTarget, structure models.Forest) (models.Forest, error)

	// ApplyBatch copies every top-level library folder, prefixing each copy's
	// name with namePrefix, and inserts them in library order at target.
	ApplyBatch(library models.Forest, namePrefix string, target ApplyTarget, structure models.Forest) (*ApplyResult, error)

	// ApplySelected copies the chosen library folders, keeping their names
	ApplySelected(library models.Forest, ids []string, target ApplyTarget, structure models.Forest) (*ApplyResult, error)
}
