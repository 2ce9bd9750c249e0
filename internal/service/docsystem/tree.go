package docsystem

import (
	"fmt"
	"log/slog"

	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/treeops"
)

// treeService implements the TreeService interface
type treeService struct {
	analyzer docsysSvc.ContentAnalyzer
	logger   *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(analyzer docsysSvc.ContentAnalyzer, logger *slog.Logger) docsysSvc.TreeService {
	return &treeService{
		analyzer: analyzer,
		logger:   logger,
	}
}

// BuildTree nests a flat document pool into folders and documents
func (s *treeService) BuildTree(pool *models.DocumentPool) *models.TreeNode {
	nodes := pool.Nodes()

	// Build folder hierarchy using 3-pass algorithm
	folderMap := make(map[string]*models.FolderTreeNode)
	var rootFolderIDs []string
	folderCount := 0

	// First pass: create all folder nodes
	for _, node := range nodes {
		if !node.IsFolder() {
			continue
		}
		folderCount++
		folderMap[node.ID] = &models.FolderTreeNode{
			ID:        node.ID,
			Name:      node.Name,
			ParentID:  node.ParentID,
			Path:      treeops.DocumentPath(pool, node.ID),
			Folders:   []*models.FolderTreeNode{},
			Documents: []models.DocumentTreeNode{},
		}
	}

	// Second pass: nest folders by connecting children to parents.
	// A folder whose parent is gone is shown at the top level.
	for _, node := range nodes {
		folder, ok := folderMap[node.ID]
		if !ok {
			continue
		}
		if parent, exists := parentOf(folderMap, node); exists {
			parent.Folders = append(parent.Folders, folder)
		} else {
			rootFolderIDs = append(rootFolderIDs, node.ID)
		}
	}

	// Third pass: add documents to their folders
	rootDocuments := make([]models.DocumentTreeNode, 0)
	for _, node := range nodes {
		if !node.IsFile() {
			continue
		}
		docNode := models.DocumentTreeNode{
			ID:          node.ID,
			Name:        node.Name,
			ParentID:    node.ParentID,
			Description: node.Description,
			FileType:    node.FileType,
			FileSize:    FormatFileSize(node.FileSize),
			WordCount:   s.analyzer.CountWords(node.Content),
			UploadDate:  node.UploadDate,
			Status:      node.Status,
		}

		if parent, exists := parentOf(folderMap, node); exists {
			parent.Documents = append(parent.Documents, docNode)
		} else {
			rootDocuments = append(rootDocuments, docNode)
		}
	}

	// Build final tree using root folder pointers
	rootFolders := make([]*models.FolderTreeNode, 0, len(rootFolderIDs))
	for _, folderID := range rootFolderIDs {
		rootFolders = append(rootFolders, folderMap[folderID])
	}

	s.logger.Debug("document tree built",
		"folder_count", folderCount,
		"document_count", len(nodes)-folderCount,
	)

	return &models.TreeNode{
		Folders:   rootFolders,
		Documents: rootDocuments,
	}
}

// SearchTree returns the matching documents with their paths. The filter
// is flat: a matching folder does not pull in its children.
func (s *treeService) SearchTree(pool *models.DocumentPool, opts models.SearchOptions) ([]models.SearchHit, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Query == "" {
		return []models.SearchHit{}, nil
	}

	matches := treeops.FilterWithOptions(pool.Nodes(), opts)
	hits := make([]models.SearchHit, 0, len(matches))
	for _, node := range matches {
		hits = append(hits, models.SearchHit{
			ID:          node.ID,
			Name:        node.Name,
			Type:        node.Type,
			Description: node.Description,
			Path:        treeops.DocumentPath(pool, node.ID),
		})
	}

	s.logger.Debug("document search",
		"query", opts.Query,
		"fields", fmt.Sprint(opts.Fields),
		"hits", len(hits),
	)
	return hits, nil
}

func parentOf(folderMap map[string]*models.FolderTreeNode, node *models.DocumentNode) (*models.FolderTreeNode, bool) {
	if node.IsRoot() {
		return nil, false
	}
	parent, ok := folderMap[*node.ParentID]
	return parent, ok
}
