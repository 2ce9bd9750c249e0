package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysRepo "reportdesk/internal/domain/repositories/docsystem"
)

// LibraryRepository keeps one encoded report library per user
type LibraryRepository struct {
	mu        sync.RWMutex
	libraries map[string][]byte
}

// NewLibraryRepository creates an empty in-memory library repository
func NewLibraryRepository() docsysRepo.LibraryRepository {
	return &LibraryRepository{libraries: make(map[string][]byte)}
}

// Get returns a fresh copy of the user's library
func (r *LibraryRepository) Get(ctx context.Context, userID string) (models.Forest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.libraries[userID]
	if !ok {
		return nil, fmt.Errorf("report library of %s: %w", userID, domain.ErrNotFound)
	}
	library := models.Forest{}
	if err := json.Unmarshal(data, &library); err != nil {
		return nil, fmt.Errorf("decode report library: %w", err)
	}
	return library, nil
}

// Save stores library
func (r *LibraryRepository) Save(ctx context.Context, userID string, library models.Forest) error {
	if library == nil {
		library = models.Forest{}
	}
	data, err := json.Marshal(library)
	if err != nil {
		return fmt.Errorf("encode report library: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.libraries[userID] = data
	return nil
}
