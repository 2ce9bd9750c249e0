package docsystem

import (
	models "reportdesk/internal/domain/models/docsystem"
)

// SkipReason explains why a document was left out of a batch link
type SkipReason string

const (
	SkipAlreadyLinked SkipReason = "already_linked"
	SkipNotAFile      SkipReason = "not_a_file"
)

// SkippedDocument is one document LinkMany did not add
type SkippedDocument struct {
	DocID  string     `json:"docId"`
	Name   string     `json:"name,omitempty"`
	Reason SkipReason `json:"reason"`
}

// LinkResult is a success with possible partial skips
type LinkResult struct {
	Structure  models.Forest     `json:"structure"`
	AddedCount int               `json:"addedCount"`
	Skipped    []SkippedDocument `json:"skipped"`
}

// DocumentLinkEngine adds reference nodes for library or upload documents
// under a folder of the report structure.
//
// Pools are searched in order and the first match wins. A document already
// referenced anywhere under the target folder is never linked twice.
type DocumentLinkEngine interface {
	// LinkOne returns ErrNotAFile, ErrNoTarget or an AlreadyLinked conflict
	// with the structure unchanged.
	LinkOne(docID string, pools []*models.DocumentPool, targetFolderID string, structure models.Forest) (models.Forest, error)

	// LinkMany links each id against one evolving copy of the structure.
	// It fails upfront with ErrEmptySelection or ErrNoTarget; per-document
	// failures are reported in Skipped.
	LinkMany(docIDs []string, pools []*models.DocumentPool, targetFolderID string, structure models.Forest) (*LinkResult, error)
}
