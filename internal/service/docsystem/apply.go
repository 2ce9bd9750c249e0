package docsystem

import (
	"fmt"
	"log/slog"

	"reportdesk/internal/config"
	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/treeops"
)

type applyEngine struct {
	ids    treeops.IDGenerator
	logger *slog.Logger
}

// NewApplyEngine creates the engine that copies library templates into a
// report structure
func NewApplyEngine(ids treeops.IDGenerator, logger *slog.Logger) docsysSvc.ApplyEngine {
	return &applyEngine{
		ids:    ids,
		logger: logger,
	}
}

// ApplySingle copies one library folder under a new name
func (e *applyEngine) ApplySingle(
	libraryNode models.ReportNode,
	newName string,
	target docsysSvc.ApplyTarget,
	structure models.Forest,
) (models.Forest, error) {
	folder, ok := libraryNode.(*models.ReportFolder)
	if !ok || folder == nil {
		return structure, fmt.Errorf("library template: %w", domain.ErrNotAFolder)
	}
	name, err := validateName("directory name", newName, config.MaxNodeNameLength)
	if err != nil {
		return structure, err
	}

	copied := treeops.DeepCopyWithNewIDs(folder, e.ids).(*models.ReportFolder)
	copied.Name = name

	next, err := e.insert(structure, target, copied)
	if err != nil {
		e.logger.Debug("apply rejected",
			"library_id", folder.ID,
			"target_folder_id", target.FolderID,
			"error", err,
		)
		return structure, err
	}

	e.logger.Info("directory applied",
		"library_id", folder.ID,
		"copy_id", copied.ID,
		"name", name,
		"target_folder_id", target.FolderID,
	)
	return next, nil
}

// ApplyBatch copies every top-level library folder with namePrefix
// prepended to its name. Top-level files are skipped.
func (e *applyEngine) ApplyBatch(
	library models.Forest,
	namePrefix string,
	target docsysSvc.ApplyTarget,
	structure models.Forest,
) (*docsysSvc.ApplyResult, error) {
	if err := validatePrefix(namePrefix); err != nil {
		return &docsysSvc.ApplyResult{Structure: structure}, err
	}

	var copies models.Forest
	for _, node := range library {
		folder, ok := node.(*models.ReportFolder)
		if !ok {
			continue
		}
		copied := treeops.DeepCopyWithNewIDs(folder, e.ids).(*models.ReportFolder)
		copied.Name = namePrefix + folder.Name
		copies = append(copies, copied)
	}

	return e.applyAll(copies, target, structure, "batch")
}

// ApplySelected copies the chosen library folders in selection order,
// keeping their names. Repeated ids are applied once. Any id that is not a
// library folder rejects the whole call.
func (e *applyEngine) ApplySelected(
	library models.Forest,
	ids []string,
	target docsysSvc.ApplyTarget,
	structure models.Forest,
) (*docsysSvc.ApplyResult, error) {
	if len(ids) == 0 {
		return &docsysSvc.ApplyResult{Structure: structure}, fmt.Errorf("library selection: %w", domain.ErrEmptySelection)
	}
	if len(ids) > config.MaxBatchSize {
		return &docsysSvc.ApplyResult{Structure: structure}, &domain.ValidationError{
			Message: fmt.Sprintf("at most %d directories can be applied at once", config.MaxBatchSize),
		}
	}

	seen := make(map[string]bool, len(ids))
	copies := make(models.Forest, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		folder := treeops.FindFolder(library, id)
		if folder == nil {
			return &docsysSvc.ApplyResult{Structure: structure}, fmt.Errorf("library directory %s: %w", id, domain.ErrNotAFolder)
		}
		copies = append(copies, treeops.DeepCopyWithNewIDs(folder, e.ids))
	}

	return e.applyAll(copies, target, structure, "selected")
}

// applyAll inserts every copy against one snapshot, or none of them
func (e *applyEngine) applyAll(
	copies models.Forest,
	target docsysSvc.ApplyTarget,
	structure models.Forest,
	mode string,
) (*docsysSvc.ApplyResult, error) {
	if len(copies) == 0 {
		e.logger.Debug("nothing to apply", "mode", mode)
		return &docsysSvc.ApplyResult{Structure: structure}, nil
	}

	next, err := e.insert(structure, target, copies...)
	if err != nil {
		e.logger.Debug("apply rejected",
			"mode", mode,
			"target_folder_id", target.FolderID,
			"error", err,
		)
		return &docsysSvc.ApplyResult{Structure: structure}, err
	}

	e.logger.Info("directories applied",
		"mode", mode,
		"count", len(copies),
		"target_folder_id", target.FolderID,
	)
	return &docsysSvc.ApplyResult{Structure: next, Applied: len(copies)}, nil
}

// insert works on a clone so a rejected target leaves structure untouched
func (e *applyEngine) insert(structure models.Forest, target docsysSvc.ApplyTarget, nodes ...models.ReportNode) (models.Forest, error) {
	working := treeops.Clone(structure)
	return treeops.InsertChild(working, target.FolderID, nodes...)
}
