package treeops

import (
	"fmt"
	"strings"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
)

// Clone returns a deep copy of the forest with the same ids
func Clone(forest models.Forest) models.Forest {
	if forest == nil {
		return models.Forest{}
	}
	out := make(models.Forest, 0, len(forest))
	for _, node := range forest {
		out = append(out, cloneNode(node))
	}
	return out
}

func cloneNode(node models.ReportNode) models.ReportNode {
	switch n := node.(type) {
	case *models.ReportFolder:
		c := *n
		c.Children = Clone(n.Children)
		return &c
	case *models.ReportFile:
		c := *n
		return &c
	default:
		// nil entries are carried over as they are
		return node
	}
}

// DeepCopyWithNewIDs clones node and its descendants, giving every node in
// the copy, the root included, a fresh id. No other field changes.
func DeepCopyWithNewIDs(node models.ReportNode, ids IDGenerator) models.ReportNode {
	switch n := node.(type) {
	case *models.ReportFolder:
		c := *n
		c.ID = ids.NewID(PrefixReportCopy)
		c.Children = make(models.Forest, 0, len(n.Children))
		for _, child := range n.Children {
			c.Children = append(c.Children, DeepCopyWithNewIDs(child, ids))
		}
		return &c
	case *models.ReportFile:
		c := *n
		c.ID = ids.NewID(PrefixReportCopy)
		return &c
	default:
		// nil entries are carried over as they are
		return node
	}
}

// Rename trims newName and sets it on the node with the given id, returning
// the previous name. A blank name or a missing id leaves the forest as is.
func Rename(forest models.Forest, id, newName string) (string, error) {
	name := strings.TrimSpace(newName)
	if name == "" {
		return "", domain.ErrEmptyName
	}

	switch n := FindNode(forest, id).(type) {
	case *models.ReportFolder:
		old := n.Name
		n.Name = name
		return old, nil
	case *models.ReportFile:
		old := n.Name
		n.Name = name
		return old, nil
	default:
		return "", fmt.Errorf("report node %s: %w", id, domain.ErrNotFound)
	}
}

// Remove splices the first node with the given id out of its containing
// children list. It returns the resulting forest and whether a node was
// removed; a missing id is not an error.
func Remove(forest models.Forest, id string) (models.Forest, bool) {
	for i, node := range forest {
		if node.NodeID() == id {
			out := make(models.Forest, 0, len(forest)-1)
			out = append(out, forest[:i]...)
			return append(out, forest[i+1:]...), true
		}
		if f, ok := node.(*models.ReportFolder); ok {
			if children, removed := Remove(f.Children, id); removed {
				f.Children = children
				return forest, true
			}
		}
	}
	return forest, false
}

// RemoveAll drops every node with the given id at any depth, filter style.
// Used where ids are not guaranteed unique, such as hand-edited libraries.
func RemoveAll(forest models.Forest, id string) (models.Forest, int) {
	out := make(models.Forest, 0, len(forest))
	removed := 0
	for _, node := range forest {
		if node.NodeID() == id {
			removed++
			continue
		}
		if f, ok := node.(*models.ReportFolder); ok {
			var n int
			f.Children, n = RemoveAll(f.Children, id)
			removed += n
		}
		out = append(out, node)
	}
	return out, removed
}

// InsertChild appends nodes to the folder parentID, or to the top level
// when parentID is empty. Nothing is inserted when the parent is missing or
// is not a folder.
func InsertChild(forest models.Forest, parentID string, nodes ...models.ReportNode) (models.Forest, error) {
	if parentID == "" {
		return append(forest, nodes...), nil
	}

	parent := FindNode(forest, parentID)
	if parent == nil {
		return forest, fmt.Errorf("report node %s: %w", parentID, domain.ErrParentNotFound)
	}
	f, ok := parent.(*models.ReportFolder)
	if !ok {
		return forest, fmt.Errorf("report node %s: %w", parentID, domain.ErrNotAFolder)
	}
	if f.Children == nil {
		f.Children = models.Forest{}
	}
	f.Children = append(f.Children, nodes...)
	return forest, nil
}

// Reparent moves the dragged node, with its whole subtree, to the end of
// the target folder's children. Rejections leave the forest untouched:
//   - ErrCyclicMove when the target is the dragged node or a descendant
//   - ErrNotFound when the dragged node is missing
//   - ErrParentNotFound / ErrNotAFolder when the target cannot hold children
func Reparent(forest models.Forest, draggedID, targetID string) (models.Forest, error) {
	if draggedID == targetID {
		return forest, fmt.Errorf("report node %s: %w", draggedID, domain.ErrCyclicMove)
	}

	target := FindNode(forest, targetID)
	if target == nil {
		return forest, fmt.Errorf("report node %s: %w", targetID, domain.ErrParentNotFound)
	}
	targetFolder, ok := target.(*models.ReportFolder)
	if !ok {
		return forest, fmt.Errorf("report node %s: %w", targetID, domain.ErrNotAFolder)
	}

	dragged := FindNode(forest, draggedID)
	if dragged == nil {
		return forest, fmt.Errorf("report node %s: %w", draggedID, domain.ErrNotFound)
	}
	if Contains(dragged, targetID) {
		return forest, fmt.Errorf("report node %s into %s: %w", draggedID, targetID, domain.ErrCyclicMove)
	}

	forest, _ = Remove(forest, draggedID)
	targetFolder.Children = append(targetFolder.Children, dragged)
	return forest, nil
}
