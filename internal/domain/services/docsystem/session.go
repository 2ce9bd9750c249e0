package docsystem

import (
	"context"
	"time"

	models "reportdesk/internal/domain/models/docsystem"
)

// CommandKind names an editing action on a session
type CommandKind string

const (
	CmdApplyDirectory CommandKind = "apply_directory" // NodeID, Name, TargetID
	CmdApplyAll       CommandKind = "apply_all"       // Name is the prefix, TargetID
	CmdApplySelected  CommandKind = "apply_selected"  // NodeIDs, TargetID
	CmdLinkDocument   CommandKind = "link_document"   // NodeID, TargetID or the selected node
	CmdLinkDocuments  CommandKind = "link_documents"  // NodeIDs, TargetID or the selected node
	CmdLinkFolder     CommandKind = "link_folder"     // NodeID of a document folder, TargetID or the selected node
	CmdRename         CommandKind = "rename"          // NodeID, Name
	CmdDelete         CommandKind = "delete"          // NodeID
	CmdMove           CommandKind = "move"            // NodeID, TargetID
	CmdCreateFolder   CommandKind = "create_folder"   // Name, TargetID (empty for top level)
	CmdSelect         CommandKind = "select"          // NodeID, empty clears
	CmdToggleExpand   CommandKind = "toggle_expand"   // NodeID
	CmdSetName        CommandKind = "set_name"        // Name
)

// Command is one editing action. Which fields are read depends on Kind.
type Command struct {
	Kind     CommandKind `json:"kind"`
	NodeID   string      `json:"nodeId,omitempty"`
	NodeIDs  []string    `json:"nodeIds,omitempty"`
	TargetID string      `json:"targetId,omitempty"`
	Name     string      `json:"name,omitempty"`
}

// NeedsLibrary reports whether the command copies report-library templates
func (c *Command) NeedsLibrary() bool {
	switch c.Kind {
	case CmdApplyDirectory, CmdApplyAll, CmdApplySelected:
		return true
	}
	return false
}

// NeedsPools reports whether the command reads document pools
func (c *Command) NeedsPools() bool {
	switch c.Kind {
	case CmdLinkDocument, CmdLinkDocuments, CmdLinkFolder:
		return true
	}
	return false
}

// Session is the state of one report being edited
type Session struct {
	ID         string        `json:"id"`
	UserID     string        `json:"-"`
	ReportID   string        `json:"reportId,omitempty"` // set once saved
	Name       string        `json:"name"`
	Structure  models.Forest `json:"structure"`
	SelectedID string        `json:"selectedId,omitempty"`
	Expanded   []string      `json:"expanded"` // sorted, no duplicates
	UpdatedAt  time.Time     `json:"updatedAt"`

	// Sources for apply and link commands, loaded per command
	Library models.Forest          `json:"-"`
	Pools   []*models.DocumentPool `json:"-"`
}

// CommandResult is the new session state plus what the command did
type CommandResult struct {
	Session    *Session          `json:"session"`
	Applied    int               `json:"applied,omitempty"`
	Added      int               `json:"added,omitempty"`
	Skipped    []SkippedDocument `json:"skipped,omitempty"`
	Renamed    *RenameResult     `json:"renamed,omitempty"`
	CreatedIDs []string          `json:"createdIds,omitempty"`
}

// FolderChoice is a report folder offered as a parent or link target.
// Top-level folders carry the root label as their path.
type FolderChoice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// ExportFormat selects the body of an export
type ExportFormat string

const (
	ExportText ExportFormat = "text"
	ExportHTML ExportFormat = "html"
)

// ExportResult is a ready-to-download report
type ExportResult struct {
	FileName    string
	ContentType string
	Body        string
}

// SessionService keeps editing sessions in memory and runs commands
// against them. A failed command leaves the session untouched.
type SessionService interface {
	// Open starts a session, from a saved report when reportID is set
	Open(ctx context.Context, userID, reportID string) (*Session, error)

	Get(ctx context.Context, userID, sessionID string) (*Session, error)

	Execute(ctx context.Context, userID, sessionID string, cmd *Command) (*CommandResult, error)

	// Folders lists the report's folders in tree order with their paths
	Folders(ctx context.Context, userID, sessionID string) ([]FolderChoice, error)

	// Save stores the session as a report and remembers its id
	Save(ctx context.Context, userID, sessionID string) (*models.Report, error)

	Export(ctx context.Context, userID, sessionID string, format ExportFormat) (*ExportResult, error)

	Close(ctx context.Context, userID, sessionID string) error
}
