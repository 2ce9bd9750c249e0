package docsystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reportdesk/internal/config"
	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	"reportdesk/internal/domain/repositories"
	docsysRepo "reportdesk/internal/domain/repositories/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/treeops"
)

type libraryService struct {
	libraryRepo docsysRepo.LibraryRepository
	txManager   repositories.TransactionManager
	seed        *config.LibrarySeed
	ids         treeops.IDGenerator
	logger      *slog.Logger
}

// NewLibraryService creates the report-library service. A user without a
// stored library starts from seed.
func NewLibraryService(
	libraryRepo docsysRepo.LibraryRepository,
	txManager repositories.TransactionManager,
	seed *config.LibrarySeed,
	ids treeops.IDGenerator,
	logger *slog.Logger,
) docsysSvc.LibraryService {
	return &libraryService{
		libraryRepo: libraryRepo,
		txManager:   txManager,
		seed:        seed,
		ids:         ids,
		logger:      logger,
	}
}

// GetLibrary returns the user's library
func (s *libraryService) GetLibrary(ctx context.Context, userID string) (models.Forest, error) {
	return s.load(ctx, userID)
}

// CreateDirectory adds an empty directory
func (s *libraryService) CreateDirectory(ctx context.Context, req *docsysSvc.CreateDirectoryRequest) (*models.ReportFolder, error) {
	name, err := validateName("directory name", req.Name, config.MaxNodeNameLength)
	if err != nil {
		return nil, err
	}

	dir := &models.ReportFolder{
		ID:       s.ids.NewID(treeops.PrefixLibraryDir),
		Name:     name,
		Children: models.Forest{},
	}

	err = s.update(ctx, req.UserID, func(library models.Forest) (models.Forest, error) {
		return treeops.InsertChild(library, req.ParentID, dir)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("library directory created",
		"id", dir.ID,
		"name", dir.Name,
		"parent_id", req.ParentID,
		"user_id", req.UserID,
	)
	return dir, nil
}

// RenameDirectory renames any node of the library
func (s *libraryService) RenameDirectory(ctx context.Context, userID, id, name string) (*docsysSvc.RenameResult, error) {
	newName, err := validateName("directory name", name, config.MaxNodeNameLength)
	if err != nil {
		return nil, err
	}

	var oldName string
	err = s.update(ctx, userID, func(library models.Forest) (models.Forest, error) {
		old, err := treeops.Rename(library, id, newName)
		oldName = old
		return library, err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("library directory renamed",
		"id", id,
		"old_name", oldName,
		"new_name", newName,
	)
	return &docsysSvc.RenameResult{ID: id, OldName: oldName, NewName: newName}, nil
}

// DeleteDirectory removes every node with the given id, and its subtree
func (s *libraryService) DeleteDirectory(ctx context.Context, userID, id string) error {
	var removed int
	err := s.update(ctx, userID, func(library models.Forest) (models.Forest, error) {
		next, n := treeops.RemoveAll(library, id)
		if n == 0 {
			return library, fmt.Errorf("library directory %s: %w", id, domain.ErrNotFound)
		}
		removed = n
		return next, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("library directory deleted", "id", id, "removed", removed)
	return nil
}

// update runs a read-modify-write of the user's library in one transaction
func (s *libraryService) update(ctx context.Context, userID string, fn func(models.Forest) (models.Forest, error)) error {
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		library, err := s.load(txCtx, userID)
		if err != nil {
			return err
		}
		next, err := fn(library)
		if err != nil {
			return err
		}
		return s.libraryRepo.Save(txCtx, userID, next)
	})
}

// load returns the stored library. A user without one gets the seed, stored
// right away so its ids stay stable between reads.
func (s *libraryService) load(ctx context.Context, userID string) (models.Forest, error) {
	library, err := s.libraryRepo.Get(ctx, userID)
	if err == nil {
		return library, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load report library: %w", err)
	}

	library = LibraryFromSeed(s.seed, s.ids)
	if err := s.libraryRepo.Save(ctx, userID, library); err != nil {
		return nil, fmt.Errorf("seed report library: %w", err)
	}
	s.logger.Debug("report library seeded", "user_id", userID, "directories", len(library))
	return library, nil
}

// LibraryFromSeed converts YAML templates into a report library with fresh
// "lib-" ids
func LibraryFromSeed(seed *config.LibrarySeed, ids treeops.IDGenerator) models.Forest {
	if seed == nil {
		return models.Forest{}
	}
	var build func(dirs []config.LibraryTemplate) models.Forest
	build = func(dirs []config.LibraryTemplate) models.Forest {
		forest := make(models.Forest, 0, len(dirs))
		for _, d := range dirs {
			forest = append(forest, &models.ReportFolder{
				ID:          ids.NewID(treeops.PrefixLibraryDir),
				Name:        d.Name,
				Description: d.Description,
				Children:    build(d.Children),
			})
		}
		return forest
	}
	return build(seed.Directories)
}
