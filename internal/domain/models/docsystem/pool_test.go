package docsystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportdesk/internal/domain"
)

func strPtr(s string) *string { return &s }

// newTestPool builds
//
//	tech/
//	  spec.pdf
//	  drafts/
//	    v1.docx
//	notes.txt
func newTestPool(t *testing.T) *DocumentPool {
	t.Helper()
	p := NewDocumentPool(nil)
	require.NoError(t, p.Insert(&DocumentNode{ID: "tech", Name: "tech", Type: NodeTypeFolder}, nil))
	require.NoError(t, p.Insert(&DocumentNode{ID: "spec", Name: "spec.pdf", Type: NodeTypeFile}, strPtr("tech")))
	require.NoError(t, p.Insert(&DocumentNode{ID: "drafts", Name: "drafts", Type: NodeTypeFolder}, strPtr("tech")))
	require.NoError(t, p.Insert(&DocumentNode{ID: "v1", Name: "v1.docx", Type: NodeTypeFile}, strPtr("drafts")))
	require.NoError(t, p.Insert(&DocumentNode{ID: "notes", Name: "notes.txt", Type: NodeTypeFile}, nil))
	return p
}

func TestDocumentPool_InsertKeepsBothSides(t *testing.T) {
	p := newTestPool(t)

	require.NoError(t, p.Validate())
	assert.Equal(t, []string{"spec", "drafts"}, p.Get("tech").Children)
	assert.Equal(t, "drafts", *p.Get("v1").ParentID)
	assert.Len(t, p.Roots(), 2)
}

func TestDocumentPool_InsertIgnoresCallerLinks(t *testing.T) {
	p := NewDocumentPool(nil)
	require.NoError(t, p.Insert(&DocumentNode{
		ID:       "f",
		Type:     NodeTypeFolder,
		ParentID: strPtr("elsewhere"),
		Children: []string{"ghost"},
	}, nil))

	stored := p.Get("f")
	assert.Nil(t, stored.ParentID)
	assert.Empty(t, stored.Children)
	assert.NoError(t, p.Validate())
}

func TestDocumentPool_InsertRejections(t *testing.T) {
	p := newTestPool(t)

	tests := []struct {
		name     string
		node     *DocumentNode
		parentID *string
		wantErr  error
	}{
		{"missing id", &DocumentNode{Name: "x"}, nil, domain.ErrValidation},
		{"duplicate id", &DocumentNode{ID: "spec"}, nil, domain.ErrConflict},
		{"unknown parent", &DocumentNode{ID: "x"}, strPtr("nope"), domain.ErrParentNotFound},
		{"file parent", &DocumentNode{ID: "x"}, strPtr("spec"), domain.ErrNotAFolder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Insert(tt.node, tt.parentID)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 5, p.Len())
			assert.NoError(t, p.Validate())
		})
	}
}

func TestDocumentPool_RemoveDeletesSubtree(t *testing.T) {
	p := newTestPool(t)

	assert.True(t, p.Remove("drafts"))
	assert.Nil(t, p.Get("drafts"))
	assert.Nil(t, p.Get("v1"), "descendants go with their folder")
	assert.Equal(t, []string{"spec"}, p.Get("tech").Children)
	require.NoError(t, p.Validate())

	assert.True(t, p.Remove("notes"))
	assert.False(t, p.Remove("notes"))
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, "spec.pdf", p.Get("spec").Name, "index is rebuilt after removal")
}

func TestDocumentPool_Rename(t *testing.T) {
	p := newTestPool(t)

	old, err := p.Rename("spec", "  datasheet.pdf ")
	require.NoError(t, err)
	assert.Equal(t, "spec.pdf", old)
	assert.Equal(t, "datasheet.pdf", p.Get("spec").Name)

	for _, blank := range []string{"", "   ", "\t\n"} {
		_, err := p.Rename("notes", blank)
		assert.ErrorIs(t, err, domain.ErrEmptyName)
		assert.Equal(t, "notes.txt", p.Get("notes").Name)
	}

	_, err = p.Rename("missing", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentPool_UpdateKeepsLinks(t *testing.T) {
	p := newTestPool(t)

	err := p.Update("drafts", func(n *DocumentNode) {
		n.Description = "work in progress"
		n.ID = "hijacked"
		n.ParentID = nil
		n.Children = nil
	})
	require.NoError(t, err)

	drafts := p.Get("drafts")
	require.NotNil(t, drafts)
	assert.Equal(t, "work in progress", drafts.Description)
	assert.Equal(t, "tech", *drafts.ParentID)
	assert.Equal(t, []string{"v1"}, drafts.Children)
	assert.NoError(t, p.Validate())

	assert.ErrorIs(t, p.Update("missing", func(*DocumentNode) {}), domain.ErrNotFound)
}

func TestDocumentPool_ValidateCatchesDesync(t *testing.T) {
	orphan := NewDocumentPool([]*DocumentNode{
		{ID: "a", Type: NodeTypeFile, ParentID: strPtr("gone")},
	})
	assert.ErrorIs(t, orphan.Validate(), domain.ErrParentNotFound)

	unlisted := NewDocumentPool([]*DocumentNode{
		{ID: "f", Type: NodeTypeFolder, Children: []string{}},
		{ID: "a", Type: NodeTypeFile, ParentID: strPtr("f")},
	})
	assert.ErrorIs(t, unlisted.Validate(), domain.ErrValidation)

	dangling := NewDocumentPool([]*DocumentNode{
		{ID: "f", Type: NodeTypeFolder, Children: []string{"a"}},
		{ID: "a", Type: NodeTypeFile},
	})
	assert.ErrorIs(t, dangling.Validate(), domain.ErrValidation)
}
