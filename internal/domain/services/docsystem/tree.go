package docsystem

import (
	models "reportdesk/internal/domain/models/docsystem"
)

// TreeService defines operations for building document trees
type TreeService interface {
	// BuildTree nests a flat document pool into folders and documents.
	// Nodes whose parent is missing are placed at the top level.
	BuildTree(pool *models.DocumentPool) *models.TreeNode

	// SearchTree filters the pool's nodes by query and returns them with
	// their paths
	SearchTree(pool *models.DocumentPool, opts models.SearchOptions) ([]models.SearchHit, error)
}
