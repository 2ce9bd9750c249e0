package docsystem

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"reportdesk/internal/config"
	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/treeops"
)

// SessionReducer computes the next session state for a command.
// It never mutates its input; on error the input state is returned.
type SessionReducer struct {
	apply  docsysSvc.ApplyEngine
	link   docsysSvc.DocumentLinkEngine
	ids    treeops.IDGenerator
	logger *slog.Logger
}

// NewSessionReducer creates a reducer over the given engines
func NewSessionReducer(
	apply docsysSvc.ApplyEngine,
	link docsysSvc.DocumentLinkEngine,
	ids treeops.IDGenerator,
	logger *slog.Logger,
) *SessionReducer {
	return &SessionReducer{
		apply:  apply,
		link:   link,
		ids:    ids,
		logger: logger,
	}
}

// Reduce applies cmd to state
func (r *SessionReducer) Reduce(state *docsysSvc.Session, cmd *docsysSvc.Command) (*docsysSvc.CommandResult, error) {
	next := copySession(state)
	result := &docsysSvc.CommandResult{Session: next}

	var err error
	switch cmd.Kind {
	case docsysSvc.CmdApplyDirectory:
		err = r.applyDirectory(next, cmd, result)
	case docsysSvc.CmdApplyAll:
		err = r.applyAll(next, cmd, result)
	case docsysSvc.CmdApplySelected:
		err = r.applySelected(next, cmd, result)
	case docsysSvc.CmdLinkDocument:
		err = r.linkDocument(next, cmd, result)
	case docsysSvc.CmdLinkDocuments:
		err = r.linkDocuments(next, cmd, result)
	case docsysSvc.CmdLinkFolder:
		err = r.linkFolder(next, cmd, result)
	case docsysSvc.CmdRename:
		err = r.rename(next, cmd, result)
	case docsysSvc.CmdDelete:
		err = r.delete(next, cmd)
	case docsysSvc.CmdMove:
		err = r.move(next, cmd)
	case docsysSvc.CmdCreateFolder:
		err = r.createFolder(next, cmd, result)
	case docsysSvc.CmdSelect:
		err = selectNode(next, cmd.NodeID)
	case docsysSvc.CmdToggleExpand:
		err = toggleExpand(next, cmd.NodeID)
	case docsysSvc.CmdSetName:
		err = setName(next, cmd.Name)
	default:
		err = fmt.Errorf("%w: unknown command %q", domain.ErrValidation, cmd.Kind)
	}
	if err != nil {
		r.logger.Debug("session command rejected",
			"session_id", state.ID,
			"kind", cmd.Kind,
			"error", err,
		)
		return &docsysSvc.CommandResult{Session: state}, err
	}
	return result, nil
}

func (r *SessionReducer) applyDirectory(s *docsysSvc.Session, cmd *docsysSvc.Command, result *docsysSvc.CommandResult) error {
	libraryNode := treeops.FindNode(s.Library, cmd.NodeID)
	if libraryNode == nil {
		return fmt.Errorf("library directory %s: %w", cmd.NodeID, domain.ErrNotFound)
	}
	name := cmd.Name
	if strings.TrimSpace(name) == "" {
		name = libraryNode.NodeName()
	}

	target := docsysSvc.ApplyTarget{FolderID: cmd.TargetID}
	structure, err := r.apply.ApplySingle(libraryNode, name, target, s.Structure)
	if err != nil {
		return err
	}
	s.Structure = structure
	result.Applied = 1
	result.CreatedIDs = tailIDs(structure, cmd.TargetID, 1)
	expand(s, cmd.TargetID)
	expand(s, result.CreatedIDs...)
	return nil
}

func (r *SessionReducer) applyAll(s *docsysSvc.Session, cmd *docsysSvc.Command, result *docsysSvc.CommandResult) error {
	target := docsysSvc.ApplyTarget{FolderID: cmd.TargetID}
	applied, err := r.apply.ApplyBatch(s.Library, cmd.Name, target, s.Structure)
	if err != nil {
		return err
	}
	r.absorbApply(s, cmd.TargetID, applied, result)
	return nil
}

func (r *SessionReducer) applySelected(s *docsysSvc.Session, cmd *docsysSvc.Command, result *docsysSvc.CommandResult) error {
	target := docsysSvc.ApplyTarget{FolderID: cmd.TargetID}
	applied, err := r.apply.ApplySelected(s.Library, cmd.NodeIDs, target, s.Structure)
	if err != nil {
		return err
	}
	r.absorbApply(s, cmd.TargetID, applied, result)
	return nil
}

func (r *SessionReducer) absorbApply(s *docsysSvc.Session, targetID string, applied *docsysSvc.ApplyResult, result *docsysSvc.CommandResult) {
	s.Structure = applied.Structure
	result.Applied = applied.Applied
	if applied.Applied == 0 {
		return
	}
	result.CreatedIDs = tailIDs(applied.Structure, targetID, applied.Applied)
	expand(s, targetID)
	expand(s, result.CreatedIDs...)
}

func (r *SessionReducer) linkDocument(s *docsysSvc.Session, cmd *docsysSvc.Command, result *docsysSvc.CommandResult) error {
	targetID := linkTarget(s, cmd)
	structure, err := r.link.LinkOne(cmd.NodeID, s.Pools, targetID, s.Structure)
	if err != nil {
		return err
	}
	s.Structure = structure
	result.Added = 1
	result.CreatedIDs = tailIDs(structure, targetID, 1)
	expand(s, targetID)
	return nil
}

func (r *SessionReducer) linkDocuments(s *docsysSvc.Session, cmd *docsysSvc.Command, result *docsysSvc.CommandResult) error {
	targetID := linkTarget(s, cmd)
	linked, err := r.link.LinkMany(cmd.NodeIDs, s.Pools, targetID, s.Structure)
	if err != nil {
		return err
	}
	s.Structure = linked.Structure
	result.Added = linked.AddedCount
	result.Skipped = linked.Skipped
	if linked.AddedCount > 0 {
		result.CreatedIDs = tailIDs(linked.Structure, targetID, linked.AddedCount)
		expand(s, targetID)
	}
	return nil
}

// linkFolder links every document below a folder of the first pool that
// holds it, in traversal order
func (r *SessionReducer) linkFolder(s *docsysSvc.Session, cmd *docsysSvc.Command, result *docsysSvc.CommandResult) error {
	var docs []*models.DocumentNode
	found := false
	for _, pool := range s.Pools {
		node := treeops.FindDocument(pool, cmd.NodeID)
		if node == nil {
			continue
		}
		if !node.IsFolder() {
			return fmt.Errorf("document %s: %w", cmd.NodeID, domain.ErrNotAFolder)
		}
		docs = treeops.CollectFolderDocuments(cmd.NodeID, pool)
		found = true
		break
	}
	if !found {
		return fmt.Errorf("document folder %s: %w", cmd.NodeID, domain.ErrNotFound)
	}

	byIDs := *cmd
	byIDs.NodeIDs = make([]string, 0, len(docs))
	for _, doc := range docs {
		byIDs.NodeIDs = append(byIDs.NodeIDs, doc.ID)
	}
	return r.linkDocuments(s, &byIDs, result)
}

func (r *SessionReducer) rename(s *docsysSvc.Session, cmd *docsysSvc.Command, result *docsysSvc.CommandResult) error {
	name, err := validateName("node name", cmd.Name, config.MaxNodeNameLength)
	if err != nil {
		return err
	}
	structure := treeops.Clone(s.Structure)
	oldName, err := treeops.Rename(structure, cmd.NodeID, name)
	if err != nil {
		return err
	}
	s.Structure = structure
	result.Renamed = &docsysSvc.RenameResult{ID: cmd.NodeID, OldName: oldName, NewName: name}
	return nil
}

func (r *SessionReducer) delete(s *docsysSvc.Session, cmd *docsysSvc.Command) error {
	structure, removed := treeops.Remove(treeops.Clone(s.Structure), cmd.NodeID)
	if !removed {
		return fmt.Errorf("report node %s: %w", cmd.NodeID, domain.ErrNotFound)
	}
	s.Structure = structure

	if s.SelectedID != "" && treeops.FindNode(structure, s.SelectedID) == nil {
		s.SelectedID = ""
	}
	s.Expanded = slices.DeleteFunc(s.Expanded, func(id string) bool {
		return treeops.FindNode(structure, id) == nil
	})
	return nil
}

func (r *SessionReducer) move(s *docsysSvc.Session, cmd *docsysSvc.Command) error {
	structure := treeops.Clone(s.Structure)
	r.logDuplicateSources(structure, cmd.NodeID, cmd.TargetID)

	structure, err := treeops.Reparent(structure, cmd.NodeID, cmd.TargetID)
	if err != nil {
		return err
	}
	s.Structure = structure
	expand(s, cmd.TargetID)

	r.logger.Info("report node moved", "node_id", cmd.NodeID, "target_folder_id", cmd.TargetID)
	return nil
}

// logDuplicateSources notes a move that brings a second reference to the
// same document under the target. Moves are not deduplicated.
func (r *SessionReducer) logDuplicateSources(structure models.Forest, draggedID, targetID string) {
	dragged := treeops.FindNode(structure, draggedID)
	target := treeops.FindFolder(structure, targetID)
	if dragged == nil || target == nil {
		return
	}
	for _, src := range sourceIDs(dragged) {
		if existing := treeops.FindBySource(target.Children, src); existing != nil && !treeops.Contains(dragged, existing.ID) {
			r.logger.Debug("moved subtree duplicates a linked document",
				"node_id", draggedID,
				"target_folder_id", targetID,
				"doc_id", src,
			)
		}
	}
}

func (r *SessionReducer) createFolder(s *docsysSvc.Session, cmd *docsysSvc.Command, result *docsysSvc.CommandResult) error {
	name, err := validateName("folder name", cmd.Name, config.MaxNodeNameLength)
	if err != nil {
		return err
	}
	folder := &models.ReportFolder{
		ID:       r.ids.NewID(treeops.PrefixReportFolder),
		Name:     name,
		Children: models.Forest{},
	}
	structure, err := treeops.InsertChild(treeops.Clone(s.Structure), cmd.TargetID, folder)
	if err != nil {
		return err
	}
	s.Structure = structure
	result.CreatedIDs = []string{folder.ID}
	expand(s, cmd.TargetID, folder.ID)
	return nil
}

func selectNode(s *docsysSvc.Session, id string) error {
	if id != "" && treeops.FindNode(s.Structure, id) == nil {
		return fmt.Errorf("report node %s: %w", id, domain.ErrNotFound)
	}
	s.SelectedID = id
	return nil
}

func toggleExpand(s *docsysSvc.Session, id string) error {
	if treeops.FindFolder(s.Structure, id) == nil {
		return fmt.Errorf("report folder %s: %w", id, domain.ErrNotFound)
	}
	if i, found := slices.BinarySearch(s.Expanded, id); found {
		s.Expanded = slices.Delete(s.Expanded, i, i+1)
		return nil
	}
	expand(s, id)
	return nil
}

// setName accepts a blank name while editing; saving and export reject it
func setName(s *docsysSvc.Session, name string) error {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > config.MaxReportNameLength || strings.ContainsAny(name, "\r\n") {
		return &domain.ValidationError{
			Message: fmt.Sprintf("report name must be a single line of at most %d characters", config.MaxReportNameLength),
		}
	}
	s.Name = name
	return nil
}

// linkTarget falls back to the selected node when no target is given
func linkTarget(s *docsysSvc.Session, cmd *docsysSvc.Command) string {
	if cmd.TargetID != "" {
		return cmd.TargetID
	}
	return s.SelectedID
}

// expand adds ids to the sorted expanded set. Empty ids are ignored.
func expand(s *docsysSvc.Session, ids ...string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if i, found := slices.BinarySearch(s.Expanded, id); !found {
			s.Expanded = slices.Insert(s.Expanded, i, id)
		}
	}
}

// tailIDs returns the ids of the last n children of the target folder, or
// of the top level when targetID is empty
func tailIDs(structure models.Forest, targetID string, n int) []string {
	nodes := structure
	if targetID != "" {
		folder := treeops.FindFolder(structure, targetID)
		if folder == nil {
			return nil
		}
		nodes = folder.Children
	}
	if n > len(nodes) {
		n = len(nodes)
	}
	ids := make([]string, 0, n)
	for _, node := range nodes[len(nodes)-n:] {
		ids = append(ids, node.NodeID())
	}
	return ids
}

func sourceIDs(node models.ReportNode) []string {
	switch n := node.(type) {
	case *models.ReportFile:
		if n.SourceID == "" {
			return nil
		}
		return []string{n.SourceID}
	case *models.ReportFolder:
		var ids []string
		for _, child := range n.Children {
			ids = append(ids, sourceIDs(child)...)
		}
		return ids
	}
	return nil
}

// copySession returns a copy whose structure and expanded set can be
// replaced without touching s. Library and pools are shared read-only.
func copySession(s *docsysSvc.Session) *docsysSvc.Session {
	c := *s
	c.Expanded = slices.Clone(s.Expanded)
	if c.Expanded == nil {
		c.Expanded = []string{}
	}
	return &c
}
