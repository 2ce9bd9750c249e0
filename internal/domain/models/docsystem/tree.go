package docsystem

import "time"

// TreeNode is the nested view of a flat document pool, handed to the UI
type TreeNode struct {
	Folders   []*FolderTreeNode  `json:"folders"`
	Documents []DocumentTreeNode `json:"documents"`
}

// FolderTreeNode represents a folder in the tree with nested children
type FolderTreeNode struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	ParentID  *string            `json:"parentId"`
	Path      string             `json:"path"`
	Folders   []*FolderTreeNode  `json:"folders"` // Pointers for proper nesting
	Documents []DocumentTreeNode `json:"documents"`
}

// DocumentTreeNode represents a document in the tree (metadata only, no content)
type DocumentTreeNode struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ParentID    *string    `json:"parentId"`
	Description string     `json:"description,omitempty"`
	FileType    string     `json:"fileType,omitempty"`
	FileSize    string     `json:"fileSize"` // human readable, see FormatFileSize
	WordCount   int        `json:"wordCount"`
	UploadDate  *time.Time `json:"uploadDate,omitempty"`
	Status      string     `json:"status,omitempty"`
}
