package docsystem

import (
	"encoding/json"
	"fmt"
)

// ReportNode is a node of a nested report tree. It is either a *ReportFolder,
// which owns its children, or a *ReportFile leaf. The interface is sealed.
type ReportNode interface {
	NodeID() string
	NodeName() string
	NodeType() NodeType
	isReportNode()
}

// ReportFolder owns its Children subtree exclusively
type ReportFolder struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Children    Forest `json:"children"`
}

// ReportFile references a document. Description and Content are a snapshot
// taken at link time, not a live link.
type ReportFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SourceID    string `json:"sourceId,omitempty"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
}

func (f *ReportFolder) NodeID() string     { return f.ID }
func (f *ReportFolder) NodeName() string   { return f.Name }
func (f *ReportFolder) NodeType() NodeType { return NodeTypeFolder }
func (f *ReportFolder) isReportNode()      {}

func (f *ReportFile) NodeID() string     { return f.ID }
func (f *ReportFile) NodeName() string   { return f.Name }
func (f *ReportFile) NodeType() NodeType { return NodeTypeFile }
func (f *ReportFile) isReportNode()      {}

// Forest is an ordered list of top-level report nodes. Both the report
// library and the report structure are forests.
type Forest []ReportNode

// reportNodeJSON is the wire shape shared by both variants
type reportNodeJSON struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        NodeType          `json:"type"`
	Children    []json.RawMessage `json:"children,omitempty"`
	SourceID    string            `json:"sourceId,omitempty"`
	Description string            `json:"description,omitempty"`
	Content     string            `json:"content,omitempty"`
}

// MarshalJSON adds the "type" discriminator
func (f *ReportFolder) MarshalJSON() ([]byte, error) {
	children := f.Children
	if children == nil {
		children = Forest{}
	}
	return json.Marshal(struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Type        NodeType `json:"type"`
		Description string   `json:"description,omitempty"`
		Children    Forest   `json:"children"`
	}{f.ID, f.Name, NodeTypeFolder, f.Description, children})
}

// MarshalJSON adds the "type" discriminator
func (f *ReportFile) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Type        NodeType `json:"type"`
		SourceID    string   `json:"sourceId,omitempty"`
		Description string   `json:"description,omitempty"`
		Content     string   `json:"content,omitempty"`
	}{f.ID, f.Name, NodeTypeFile, f.SourceID, f.Description, f.Content})
}

// UnmarshalJSON decodes a list of tagged nodes into their variants
func (fs *Forest) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Forest, 0, len(raw))
	for _, msg := range raw {
		node, err := decodeReportNode(msg)
		if err != nil {
			return err
		}
		out = append(out, node)
	}
	*fs = out
	return nil
}

func decodeReportNode(data []byte) (ReportNode, error) {
	var wire reportNodeJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}

	switch wire.Type {
	case NodeTypeFolder:
		children := make(Forest, 0, len(wire.Children))
		for _, c := range wire.Children {
			child, err := decodeReportNode(c)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return &ReportFolder{
			ID:          wire.ID,
			Name:        wire.Name,
			Description: wire.Description,
			Children:    children,
		}, nil
	case NodeTypeFile:
		if len(wire.Children) > 0 {
			return nil, fmt.Errorf("report file %s: files cannot have children", wire.ID)
		}
		return &ReportFile{
			ID:          wire.ID,
			Name:        wire.Name,
			SourceID:    wire.SourceID,
			Description: wire.Description,
			Content:     wire.Content,
		}, nil
	default:
		return nil, fmt.Errorf("report node %s: unknown type %q", wire.ID, wire.Type)
	}
}
