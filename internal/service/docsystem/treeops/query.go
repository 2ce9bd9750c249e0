// Package treeops holds the read and write primitives over the two tree
// shapes: the flat id-indexed document pool and the nested report forest.
//
// Queries never fail; a miss is reported as nil/false. Mutations work on
// the forest they are given; callers that need to keep a snapshot pass a
// Clone.
package treeops

import (
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	models "reportdesk/internal/domain/models/docsystem"
)

// RootPathLabel is returned by path lookups for missing or top-level nodes
const RootPathLabel = "根目录"

// PathSeparator joins path segments, most distant ancestor first
const PathSeparator = " / "

// FindDocument returns the pool entry with the given id, or nil
func FindDocument(pool *models.DocumentPool, id string) *models.DocumentNode {
	if id == "" {
		return nil
	}
	return pool.Get(id)
}

// FindInPools searches pools in order and returns the first match
func FindInPools(pools []*models.DocumentPool, id string) *models.DocumentNode {
	for _, pool := range pools {
		if node := FindDocument(pool, id); node != nil {
			return node
		}
	}
	return nil
}

// FindNode returns the first node with the given id in depth-first
// pre-order, or nil
func FindNode(forest models.Forest, id string) models.ReportNode {
	for _, node := range forest {
		if node.NodeID() == id {
			return node
		}
		if f, ok := node.(*models.ReportFolder); ok {
			if found := FindNode(f.Children, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// FindFolder returns the folder with the given id, or nil when the id is
// missing or names a file
func FindFolder(forest models.Forest, id string) *models.ReportFolder {
	f, _ := FindNode(forest, id).(*models.ReportFolder)
	return f
}

// DocumentPath walks ParentID pointers upward and joins the names,
// most distant ancestor first. Missing ids and top-level nodes yield
// RootPathLabel.
func DocumentPath(pool *models.DocumentPool, id string) string {
	node := FindDocument(pool, id)
	if node == nil || node.IsRoot() {
		return RootPathLabel
	}

	var names []string
	seen := map[string]bool{}
	for node != nil && !seen[node.ID] {
		seen[node.ID] = true
		names = append(names, node.Name)
		if node.IsRoot() {
			break
		}
		node = pool.Get(*node.ParentID)
	}

	slices.Reverse(names)
	return strings.Join(names, PathSeparator)
}

// ReportPath returns the names from the top-level ancestor down to the node.
// Missing ids and top-level nodes yield RootPathLabel.
func ReportPath(forest models.Forest, id string) string {
	names := reportPath(forest, id, nil)
	if len(names) <= 1 {
		return RootPathLabel
	}
	return strings.Join(names, PathSeparator)
}

func reportPath(nodes models.Forest, id string, prefix []string) []string {
	for _, node := range nodes {
		path := append(append([]string(nil), prefix...), node.NodeName())
		if node.NodeID() == id {
			return path
		}
		if f, ok := node.(*models.ReportFolder); ok {
			if found := reportPath(f.Children, id, path); found != nil {
				return found
			}
		}
	}
	return nil
}

// CollectFolders returns every folder in depth-first pre-order
func CollectFolders(forest models.Forest) []*models.ReportFolder {
	var folders []*models.ReportFolder
	var walk func(nodes models.Forest)
	walk = func(nodes models.Forest) {
		for _, node := range nodes {
			if f, ok := node.(*models.ReportFolder); ok {
				folders = append(folders, f)
				walk(f.Children)
			}
		}
	}
	walk(forest)
	return folders
}

// CollectFolderDocuments resolves a folder's children recursively and
// returns the file leaves in traversal order. Unknown ids are skipped.
func CollectFolderDocuments(folderID string, pool *models.DocumentPool) []*models.DocumentNode {
	root := FindDocument(pool, folderID)
	if !root.IsFolder() {
		return nil
	}

	var docs []*models.DocumentNode
	seen := map[string]bool{root.ID: true}
	var walk func(n *models.DocumentNode)
	walk = func(n *models.DocumentNode) {
		for _, childID := range n.Children {
			if seen[childID] {
				continue
			}
			seen[childID] = true
			child := pool.Get(childID)
			switch {
			case child.IsFile():
				docs = append(docs, child)
			case child.IsFolder():
				walk(child)
			}
		}
	}
	walk(root)
	return docs
}

// FilterBySearch keeps the nodes whose name, description or textual
// content contains query, ignoring case. An empty query returns nodes
// itself. The filter is not recursive.
func FilterBySearch(nodes []*models.DocumentNode, query string) []*models.DocumentNode {
	return FilterWithOptions(nodes, models.SearchOptions{Query: query})
}

// FilterWithOptions is FilterBySearch restricted to opts.Fields
func FilterWithOptions(nodes []*models.DocumentNode, opts models.SearchOptions) []*models.DocumentNode {
	if opts.Query == "" {
		return nodes
	}
	opts.ApplyDefaults()
	// A Caser is stateful; one per call keeps the filter goroutine-safe
	fold := cases.Fold()
	needle := fold.String(opts.Query)

	filtered := make([]*models.DocumentNode, 0, len(nodes))
	for _, node := range nodes {
		if node != nil && matches(fold, node, needle, opts.Fields) {
			filtered = append(filtered, node)
		}
	}
	return filtered
}

func matches(fold cases.Caser, node *models.DocumentNode, needle string, fields []models.SearchField) bool {
	for _, field := range fields {
		var haystack string
		switch field {
		case models.SearchFieldName:
			haystack = node.Name
		case models.SearchFieldDescription:
			haystack = node.Description
		case models.SearchFieldContent:
			if !utf8.ValidString(node.Content) {
				continue
			}
			haystack = node.Content
		}
		if haystack != "" && strings.Contains(fold.String(haystack), needle) {
			return true
		}
	}
	return false
}

// FindBySource returns the first file under nodes, at any depth, that
// references sourceID
func FindBySource(nodes models.Forest, sourceID string) *models.ReportFile {
	for _, node := range nodes {
		switch n := node.(type) {
		case *models.ReportFile:
			if n.SourceID == sourceID {
				return n
			}
		case *models.ReportFolder:
			if found := FindBySource(n.Children, sourceID); found != nil {
				return found
			}
		}
	}
	return nil
}

// HasDocuments reports whether any file leaf exists in the forest
func HasDocuments(forest models.Forest) bool {
	for _, node := range forest {
		switch n := node.(type) {
		case *models.ReportFile:
			return true
		case *models.ReportFolder:
			if HasDocuments(n.Children) {
				return true
			}
		}
	}
	return false
}

// Contains reports whether id is node itself or one of its descendants
func Contains(node models.ReportNode, id string) bool {
	if node.NodeID() == id {
		return true
	}
	if f, ok := node.(*models.ReportFolder); ok {
		for _, child := range f.Children {
			if Contains(child, id) {
				return true
			}
		}
	}
	return false
}

// CountNodes returns the number of folders and files in the forest
func CountNodes(forest models.Forest) (folders, files int) {
	for _, node := range forest {
		switch n := node.(type) {
		case *models.ReportFile:
			files++
		case *models.ReportFolder:
			folders++
			subFolders, subFiles := CountNodes(n.Children)
			folders += subFolders
			files += subFiles
		}
	}
	return folders, files
}
