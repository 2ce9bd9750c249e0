package docsystem

import (
	"time"
)

// AttachmentKind selects one of a report's attachment lists
type AttachmentKind string

const (
	AttachmentStyle   AttachmentKind = "style"
	AttachmentBidding AttachmentKind = "bidding"
)

// UploadedFile is metadata of a file attached to a report. Attachments are
// unrelated to the report tree.
type UploadedFile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	UploadDate time.Time `json:"uploadDate"`
	Content    string    `json:"content,omitempty"`
}

// Report is the saved aggregate of a report session
type Report struct {
	ID            string         `json:"id" db:"id"`
	UserID        string         `json:"userId" db:"user_id"`
	Name          string         `json:"name" db:"name"`
	Structure     Forest         `json:"structure" db:"structure"`
	StyleDocFiles []UploadedFile `json:"styleDocFiles" db:"style_doc_files"`
	BiddingFiles  []UploadedFile `json:"biddingFiles" db:"bidding_files"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}

// ReportSummary is the list view of a saved report
type ReportSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
