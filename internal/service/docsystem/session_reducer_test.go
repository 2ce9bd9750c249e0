package docsystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/treeops"
)

func newReducer() *SessionReducer {
	ids := &treeops.SequenceGenerator{}
	logger := discardLogger()
	return NewSessionReducer(NewApplyEngine(ids, logger), NewDocumentLinkEngine(ids, logger), ids, logger)
}

func newState(t *testing.T) *docsysSvc.Session {
	return &docsysSvc.Session{
		ID:        "session-1",
		UserID:    "u1",
		Name:      "投标书",
		Structure: chapterStructure(),
		Expanded:  []string{},
		Library:   reportLibrary(),
		Pools:     []*models.DocumentPool{docLibrary(t)},
	}
}

func reduce(t *testing.T, r *SessionReducer, s *docsysSvc.Session, cmd docsysSvc.Command) *docsysSvc.CommandResult {
	t.Helper()
	result, err := r.Reduce(s, &cmd)
	require.NoError(t, err)
	return result
}

func TestReduce_ApplyDirectory(t *testing.T) {
	state := newState(t)
	r := newReducer()

	result := reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdApplyDirectory, NodeID: "dir-1", TargetID: "ch-2"})

	require.Len(t, result.CreatedIDs, 1)
	copied := treeops.FindFolder(result.Session.Structure, result.CreatedIDs[0])
	require.NotNil(t, copied)
	assert.Equal(t, "第一章 概述", copied.Name, "blank name keeps the template's")
	assert.Equal(t, 1, result.Applied)
	assert.Contains(t, result.Session.Expanded, "ch-2")
	assert.Contains(t, result.Session.Expanded, copied.ID)

	assert.Empty(t, treeops.FindFolder(state.Structure, "ch-2").Children, "previous state untouched")
	assert.Empty(t, state.Expanded)
}

func TestReduce_ApplyDirectory_Renamed(t *testing.T) {
	result := reduce(t, newReducer(), newState(t), docsysSvc.Command{Kind: docsysSvc.CmdApplyDirectory, NodeID: "dir-2", Name: "方案"})
	last := result.Session.Structure[len(result.Session.Structure)-1]
	assert.Equal(t, "方案", last.NodeName())
	assert.Equal(t, []string{last.NodeID()}, result.Session.Expanded)
}

func TestReduce_ApplyAllAndSelected(t *testing.T) {
	r := newReducer()

	all := reduce(t, r, newState(t), docsysSvc.Command{Kind: docsysSvc.CmdApplyAll, Name: "附-"})
	assert.Equal(t, 2, all.Applied)
	assert.Len(t, all.CreatedIDs, 2)
	assert.Len(t, all.Session.Structure, 4)

	selected := reduce(t, r, newState(t), docsysSvc.Command{Kind: docsysSvc.CmdApplySelected, NodeIDs: []string{"dir-1-2"}, TargetID: "ch-1"})
	assert.Equal(t, 1, selected.Applied)
	ch1 := treeops.FindFolder(selected.Session.Structure, "ch-1")
	assert.Equal(t, "1.2 建设目标", ch1.Children[len(ch1.Children)-1].NodeName())
}

func TestReduce_LinkUsesSelectedFolder(t *testing.T) {
	r := newReducer()
	state := reduce(t, r, newState(t), docsysSvc.Command{Kind: docsysSvc.CmdSelect, NodeID: "ch-1-1"}).Session

	result := reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdLinkDocument, NodeID: "doc-5"})
	assert.Equal(t, 1, result.Added)
	target := treeops.FindFolder(result.Session.Structure, "ch-1-1")
	require.Len(t, target.Children, 1)
	assert.Equal(t, result.CreatedIDs[0], target.Children[0].NodeID())
	assert.Equal(t, []string{"ch-1-1"}, result.Session.Expanded)

	_, err := r.Reduce(result.Session, &docsysSvc.Command{Kind: docsysSvc.CmdLinkDocument, NodeID: "doc-5"})
	assert.ErrorIs(t, err, domain.ErrAlreadyLinked)
}

func TestReduce_LinkWithoutTarget(t *testing.T) {
	state := newState(t)
	result, err := newReducer().Reduce(state, &docsysSvc.Command{Kind: docsysSvc.CmdLinkDocument, NodeID: "doc-5"})
	assert.ErrorIs(t, err, domain.ErrNoTarget)
	assert.Same(t, state, result.Session)
}

func TestReduce_LinkDocuments(t *testing.T) {
	result := reduce(t, newReducer(), newState(t), docsysSvc.Command{
		Kind:     docsysSvc.CmdLinkDocuments,
		NodeIDs:  []string{"doc-3", "doc-1", "doc-6"},
		TargetID: "ch-2",
	})
	assert.Equal(t, 2, result.Added)
	assert.Len(t, result.Skipped, 1)
	assert.Len(t, result.CreatedIDs, 2)
	assert.Equal(t, []string{"ch-2"}, result.Session.Expanded)
}

func TestReduce_LinkFolder(t *testing.T) {
	r := newReducer()

	result := reduce(t, r, newState(t), docsysSvc.Command{Kind: docsysSvc.CmdLinkFolder, NodeID: "doc-1", TargetID: "ch-2"})
	assert.Equal(t, 2, result.Added)
	assert.Empty(t, result.Skipped)
	ch2 := treeops.FindFolder(result.Session.Structure, "ch-2")
	require.Len(t, ch2.Children, 2)
	assert.Equal(t, "doc-3", ch2.Children[0].(*models.ReportFile).SourceID)
	assert.Equal(t, "doc-4", ch2.Children[1].(*models.ReportFile).SourceID)
	assert.Equal(t, []string{"ch-2"}, result.Session.Expanded)

	again := reduce(t, r, result.Session, docsysSvc.Command{Kind: docsysSvc.CmdLinkFolder, NodeID: "doc-1", TargetID: "ch-2"})
	assert.Zero(t, again.Added)
	require.Len(t, again.Skipped, 2)
	assert.Equal(t, docsysSvc.SkipAlreadyLinked, again.Skipped[0].Reason)
}

func TestReduce_LinkFolderRejections(t *testing.T) {
	r := newReducer()
	withEmpty := newState(t)
	withEmpty.Pools = append(withEmpty.Pools, models.NewDocumentPool([]*models.DocumentNode{
		{ID: "upload-dir", Name: "空目录", Type: models.NodeTypeFolder, Children: []string{}},
	}))

	tests := []struct {
		name    string
		state   *docsysSvc.Session
		cmd     docsysSvc.Command
		wantErr error
	}{
		{"file instead of folder", newState(t), docsysSvc.Command{NodeID: "doc-3", TargetID: "ch-2"}, domain.ErrNotAFolder},
		{"unknown folder", newState(t), docsysSvc.Command{NodeID: "nope", TargetID: "ch-2"}, domain.ErrNotFound},
		{"empty folder", withEmpty, docsysSvc.Command{NodeID: "upload-dir", TargetID: "ch-2"}, domain.ErrEmptySelection},
		{"no target", newState(t), docsysSvc.Command{NodeID: "doc-2"}, domain.ErrNoTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cmd.Kind = docsysSvc.CmdLinkFolder
			result, err := r.Reduce(tt.state, &tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Same(t, tt.state, result.Session)
		})
	}
}

func TestReduce_RenameDeleteCreate(t *testing.T) {
	r := newReducer()
	state := newState(t)

	renamed := reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdRename, NodeID: "ch-1", Name: " 概述 "})
	assert.Equal(t, &docsysSvc.RenameResult{ID: "ch-1", OldName: "第一章", NewName: "概述"}, renamed.Renamed)
	assert.Equal(t, "第一章", state.Structure[0].NodeName())

	created := reduce(t, r, renamed.Session, docsysSvc.Command{Kind: docsysSvc.CmdCreateFolder, Name: "附件", TargetID: "ch-2"})
	require.Len(t, created.CreatedIDs, 1)
	assert.Regexp(t, `^folder-`, created.CreatedIDs[0])
	assert.Equal(t, []string{"ch-2", created.CreatedIDs[0]}, created.Session.Expanded)

	_, err := r.Reduce(created.Session, &docsysSvc.Command{Kind: docsysSvc.CmdCreateFolder, Name: " "})
	assert.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = r.Reduce(created.Session, &docsysSvc.Command{Kind: docsysSvc.CmdRename, NodeID: "nope", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReduce_DeleteClearsSelection(t *testing.T) {
	r := newReducer()
	state := reduce(t, r, newState(t), docsysSvc.Command{Kind: docsysSvc.CmdSelect, NodeID: "ch-1-1"}).Session
	state = reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdToggleExpand, NodeID: "ch-1"}).Session
	state = reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdToggleExpand, NodeID: "ch-2"}).Session
	require.Equal(t, []string{"ch-1", "ch-2"}, state.Expanded)

	deleted := reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdDelete, NodeID: "ch-1"})
	assert.Empty(t, deleted.Session.SelectedID, "selected descendant is gone")
	assert.Equal(t, []string{"ch-2"}, deleted.Session.Expanded)
	assert.Len(t, deleted.Session.Structure, 1)

	kept := reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdDelete, NodeID: "ch-2"})
	assert.Equal(t, "ch-1-1", kept.Session.SelectedID)

	_, err := r.Reduce(state, &docsysSvc.Command{Kind: docsysSvc.CmdDelete, NodeID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReduce_Move(t *testing.T) {
	r := newReducer()
	state := newState(t)

	moved := reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdMove, NodeID: "ch-1-1", TargetID: "ch-2"})
	assert.Empty(t, treeops.FindFolder(moved.Session.Structure, "ch-1").Children)
	assert.Len(t, treeops.FindFolder(moved.Session.Structure, "ch-2").Children, 1)
	assert.Equal(t, []string{"ch-2"}, moved.Session.Expanded)

	_, err := r.Reduce(state, &docsysSvc.Command{Kind: docsysSvc.CmdMove, NodeID: "ch-1", TargetID: "ch-1-1"})
	assert.ErrorIs(t, err, domain.ErrCyclicMove)
}

func TestReduce_MoveKeepsDuplicateReferences(t *testing.T) {
	r := newReducer()
	state := newState(t)
	state = reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdLinkDocument, NodeID: "doc-3", TargetID: "ch-1-1"}).Session
	state = reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdLinkDocument, NodeID: "doc-3", TargetID: "ch-2"}).Session

	moved := reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdMove, NodeID: "ch-1-1", TargetID: "ch-2"})
	ch2 := treeops.FindFolder(moved.Session.Structure, "ch-2")
	require.Len(t, ch2.Children, 2)
	assert.NotNil(t, treeops.FindBySource(ch2.Children[1:], "doc-3"))
}

func TestReduce_SelectAndExpandValidation(t *testing.T) {
	r := newReducer()
	state := newState(t)

	_, err := r.Reduce(state, &docsysSvc.Command{Kind: docsysSvc.CmdSelect, NodeID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cleared := reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdSelect})
	assert.Empty(t, cleared.Session.SelectedID)

	_, err = r.Reduce(state, &docsysSvc.Command{Kind: docsysSvc.CmdToggleExpand, NodeID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	opened := reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdToggleExpand, NodeID: "ch-2"})
	closed := reduce(t, r, opened.Session, docsysSvc.Command{Kind: docsysSvc.CmdToggleExpand, NodeID: "ch-2"})
	assert.Equal(t, []string{"ch-2"}, opened.Session.Expanded)
	assert.Empty(t, closed.Session.Expanded)
}

func TestReduce_SetName(t *testing.T) {
	r := newReducer()
	state := newState(t)

	named := reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdSetName, Name: "  新报告 "})
	assert.Equal(t, "新报告", named.Session.Name)
	assert.Equal(t, "投标书", state.Name)

	blank := reduce(t, r, state, docsysSvc.Command{Kind: docsysSvc.CmdSetName})
	assert.Empty(t, blank.Session.Name)

	_, err := r.Reduce(state, &docsysSvc.Command{Kind: docsysSvc.CmdSetName, Name: "a\nb"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReduce_UnknownCommand(t *testing.T) {
	state := newState(t)
	result, err := newReducer().Reduce(state, &docsysSvc.Command{Kind: "explode"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Same(t, state, result.Session)
}
