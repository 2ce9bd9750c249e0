package docsystem

import (
	"time"
)

// NodeType tags a node as a file leaf or a folder
type NodeType string

const (
	NodeTypeFile   NodeType = "file"
	NodeTypeFolder NodeType = "folder"
)

// DocumentStatus values for the uploads pool. Anything else is a
// server-assigned id confirming the upload.
const (
	StatusLocal   = "LOCAL"
	StatusPending = "PENDING"
)

// DocumentNode is an entry of a flat, id-indexed document pool.
// Parent/child relationships are expressed purely by id.
type DocumentNode struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        NodeType   `json:"type"`
	ParentID    *string    `json:"parentId"`           // nil = root level
	Children    []string   `json:"children,omitempty"` // folders only, child ids
	Content     string     `json:"content,omitempty"`  // decoded text, may be empty when URL is set
	FileType    string     `json:"fileType,omitempty"` // MIME-like
	FileSize    int64      `json:"fileSize,omitempty"`
	URL         string     `json:"url,omitempty"` // fetch-on-demand alternative to Content
	UploadDate  *time.Time `json:"uploadDate,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
}

// IsFolder reports whether the node is a folder
func (n *DocumentNode) IsFolder() bool {
	return n != nil && n.Type == NodeTypeFolder
}

// IsFile reports whether the node is a file
func (n *DocumentNode) IsFile() bool {
	return n != nil && n.Type == NodeTypeFile
}

// IsRoot reports whether the node has no parent
func (n *DocumentNode) IsRoot() bool {
	return n.ParentID == nil || *n.ParentID == ""
}

// Clone returns a copy that shares no slices or pointers with n
func (n *DocumentNode) Clone() *DocumentNode {
	c := *n
	if n.ParentID != nil {
		parent := *n.ParentID
		c.ParentID = &parent
	}
	if n.Children != nil {
		c.Children = append([]string(nil), n.Children...)
	}
	if n.UploadDate != nil {
		d := *n.UploadDate
		c.UploadDate = &d
	}
	return &c
}
