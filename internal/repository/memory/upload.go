package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysRepo "reportdesk/internal/domain/repositories/docsystem"
)

// UploadRepository keeps each user's uploads in upload order
type UploadRepository struct {
	mu      sync.RWMutex
	uploads map[string][]*models.DocumentNode
}

// NewUploadRepository creates an empty in-memory uploads repository
func NewUploadRepository() docsysRepo.UploadRepository {
	return &UploadRepository{uploads: make(map[string][]*models.DocumentNode)}
}

// Create appends an upload
func (r *UploadRepository) Create(ctx context.Context, userID string, node *models.DocumentNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(userID, node.ID) >= 0 {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("upload %s already exists", node.ID),
			ResourceType: "upload",
			ResourceID:   node.ID,
		}
	}
	r.uploads[userID] = append(r.uploads[userID], node.Clone())
	return nil
}

// GetByID returns a copy of one upload
func (r *UploadRepository) GetByID(ctx context.Context, id, userID string) (*models.DocumentNode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(userID, id)
	if i < 0 {
		return nil, fmt.Errorf("upload %s: %w", id, domain.ErrNotFound)
	}
	return r.uploads[userID][i].Clone(), nil
}

// ListByUser returns copies of the user's uploads
func (r *UploadRepository) ListByUser(ctx context.Context, userID string) ([]*models.DocumentNode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := make([]*models.DocumentNode, 0, len(r.uploads[userID]))
	for _, n := range r.uploads[userID] {
		nodes = append(nodes, n.Clone())
	}
	return nodes, nil
}

// UpdateMetadata writes name, description and status
func (r *UploadRepository) UpdateMetadata(ctx context.Context, userID string, node *models.DocumentNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(userID, node.ID)
	if i < 0 {
		return fmt.Errorf("upload %s: %w", node.ID, domain.ErrNotFound)
	}
	stored := r.uploads[userID][i]
	stored.Name = node.Name
	stored.Description = node.Description
	stored.Status = node.Status
	return nil
}

// Delete removes an upload
func (r *UploadRepository) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(userID, id)
	if i < 0 {
		return fmt.Errorf("upload %s: %w", id, domain.ErrNotFound)
	}
	r.uploads[userID] = slices.Delete(r.uploads[userID], i, i+1)
	return nil
}

func (r *UploadRepository) indexOf(userID, id string) int {
	return slices.IndexFunc(r.uploads[userID], func(n *models.DocumentNode) bool { return n.ID == id })
}
