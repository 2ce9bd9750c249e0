package docsystem

import (
	"errors"
	"fmt"
	"log/slog"

	"reportdesk/internal/config"
	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/treeops"
)

type documentLinkEngine struct {
	ids    treeops.IDGenerator
	logger *slog.Logger
}

// NewDocumentLinkEngine creates the engine that adds document references
// to a report structure
func NewDocumentLinkEngine(ids treeops.IDGenerator, logger *slog.Logger) docsysSvc.DocumentLinkEngine {
	return &documentLinkEngine{
		ids:    ids,
		logger: logger,
	}
}

// LinkOne adds a reference to one document under the target folder
func (e *documentLinkEngine) LinkOne(
	docID string,
	pools []*models.DocumentPool,
	targetFolderID string,
	structure models.Forest,
) (models.Forest, error) {
	doc := treeops.FindInPools(pools, docID)
	if !doc.IsFile() {
		return structure, fmt.Errorf("document %s: %w", docID, domain.ErrNotAFile)
	}

	working := treeops.Clone(structure)
	target, err := resolveTarget(working, targetFolderID)
	if err != nil {
		return structure, err
	}

	ref, err := e.link(target, doc)
	if err != nil {
		e.logger.Debug("link rejected",
			"doc_id", docID,
			"target_folder_id", targetFolderID,
			"error", err,
		)
		return structure, err
	}

	e.logger.Info("document linked",
		"doc_id", docID,
		"node_id", ref.ID,
		"target_folder_id", targetFolderID,
	)
	return working, nil
}

// LinkMany links each id in order against one evolving copy of structure,
// so a repeated id, or one linked earlier in the batch, is skipped
func (e *documentLinkEngine) LinkMany(
	docIDs []string,
	pools []*models.DocumentPool,
	targetFolderID string,
	structure models.Forest,
) (*docsysSvc.LinkResult, error) {
	unchanged := &docsysSvc.LinkResult{Structure: structure, Skipped: []docsysSvc.SkippedDocument{}}

	if len(docIDs) == 0 {
		return unchanged, fmt.Errorf("link documents: %w", domain.ErrEmptySelection)
	}
	if len(docIDs) > config.MaxBatchSize {
		return unchanged, &domain.ValidationError{
			Message: fmt.Sprintf("at most %d documents can be linked at once", config.MaxBatchSize),
		}
	}

	working := treeops.Clone(structure)
	target, err := resolveTarget(working, targetFolderID)
	if err != nil {
		return unchanged, err
	}

	result := &docsysSvc.LinkResult{Skipped: []docsysSvc.SkippedDocument{}}
	for _, docID := range docIDs {
		doc := treeops.FindInPools(pools, docID)
		if !doc.IsFile() {
			result.Skipped = append(result.Skipped, docsysSvc.SkippedDocument{
				DocID:  docID,
				Name:   nameOf(doc),
				Reason: docsysSvc.SkipNotAFile,
			})
			continue
		}

		if _, err := e.link(target, doc); err != nil {
			if !errors.Is(err, domain.ErrAlreadyLinked) {
				return unchanged, err
			}
			e.logger.Debug("document already linked, skipping",
				"doc_id", docID,
				"target_folder_id", targetFolderID,
			)
			result.Skipped = append(result.Skipped, docsysSvc.SkippedDocument{
				DocID:  docID,
				Name:   doc.Name,
				Reason: docsysSvc.SkipAlreadyLinked,
			})
			continue
		}
		result.AddedCount++
	}

	if result.AddedCount == 0 {
		result.Structure = structure
	} else {
		result.Structure = working
	}

	e.logger.Info("documents linked",
		"target_folder_id", targetFolderID,
		"added", result.AddedCount,
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// link appends a snapshot reference to doc unless the target's subtree
// already references it
func (e *documentLinkEngine) link(target *models.ReportFolder, doc *models.DocumentNode) (*models.ReportFile, error) {
	if existing := treeops.FindBySource(target.Children, doc.ID); existing != nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("document %q is already in folder %q or one of its sub-folders", doc.Name, target.Name),
			ResourceType: "report_node",
			ResourceID:   existing.ID,
			Kind:         domain.ErrAlreadyLinked,
		}
	}

	ref := &models.ReportFile{
		ID:          e.ids.NewID(treeops.PrefixReportDoc),
		Name:        doc.Name,
		SourceID:    doc.ID,
		Description: doc.Description,
		Content:     doc.Content,
	}
	target.Children = append(target.Children, ref)
	return ref, nil
}

// resolveTarget finds the link target folder in the working copy
func resolveTarget(working models.Forest, targetFolderID string) (*models.ReportFolder, error) {
	if targetFolderID == "" {
		return nil, fmt.Errorf("link target: %w", domain.ErrNoTarget)
	}
	target := treeops.FindFolder(working, targetFolderID)
	if target == nil {
		return nil, fmt.Errorf("link target %s: %w", targetFolderID, domain.ErrNoTarget)
	}
	return target, nil
}

func nameOf(doc *models.DocumentNode) string {
	if doc == nil {
		return ""
	}
	return doc.Name
}
