package scan

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "reportdesk/internal/domain/models/docsystem"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01_第一章_概述.docx", "第一章 概述"},
		{"02_市场调研.PDF", "市场调研"},
		{"plain.docx", "plain"},
		{"notes.txt", "notes.txt"},
		{"2024_年度_报告.pdf", "年度 报告"},
		{"a_1_b.pdf", "a 1 b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.in))
		})
	}
}

func TestLibraryScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "XA_证书", "01_营业执照.pdf"), "pdf")
	writeFile(t, filepath.Join(root, "XA_证书", "02_资质_证明.docx"), "docx")
	writeFile(t, filepath.Join(root, "XA_证书", "readme.txt"), "ignored")
	writeFile(t, filepath.Join(root, "XA_证书", "nested", "deep.pdf"), "ignored")
	writeFile(t, filepath.Join(root, "loose.pdf"), "ignored")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "空目录"), 0o755))

	pool, err := NewLibraryScanner(root, LibraryBaseURL).Scan()
	require.NoError(t, err)
	require.NoError(t, pool.Validate())

	roots := pool.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "XA_证书", roots[0].Name)
	assert.Equal(t, "空目录", roots[1].Name)
	assert.Empty(t, roots[1].Children)

	certs := roots[0]
	assert.True(t, certs.IsFolder())
	require.Len(t, certs.Children, 2)

	license := pool.Get(certs.Children[0])
	require.NotNil(t, license)
	assert.Equal(t, "营业执照", license.Name)
	assert.Equal(t, models.FileTypePDF, license.FileType)
	assert.Equal(t, "/files/library/XA_证书/01_营业执照.pdf", license.URL)
	assert.EqualValues(t, 3, license.FileSize)
	assert.Equal(t, certs.ID, *license.ParentID)
	assert.Regexp(t, `^lib-[0-9a-f]+$`, license.ID)

	qual := pool.Get(certs.Children[1])
	require.NotNil(t, qual)
	assert.Equal(t, "资质 证明", qual.Name)
	assert.Equal(t, models.FileTypeDocx, qual.FileType)
}

func TestLibraryScanner_IDsAreStable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "a.pdf"), "a")

	scanner := NewLibraryScanner(root, LibraryBaseURL)
	first, err := scanner.Scan()
	require.NoError(t, err)
	second, err := scanner.Scan()
	require.NoError(t, err)

	assert.Equal(t, first.Nodes()[0].ID, second.Nodes()[0].ID)
	assert.Equal(t, first.Nodes()[1].ID, second.Nodes()[1].ID)
}

func TestLibraryScanner_MissingRoot(t *testing.T) {
	pool, err := NewLibraryScanner(filepath.Join(t.TempDir(), "nope"), LibraryBaseURL).Scan()
	require.NoError(t, err)
	assert.Zero(t, pool.Len())
}

func TestLibrary_RescanReplacesPool(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "a.pdf"), "a")

	lib := NewLibrary(NewLibraryScanner(root, LibraryBaseURL), discardLogger())
	assert.Zero(t, lib.Pool().Len())

	require.NoError(t, lib.Rescan(context.Background()))
	before := lib.Pool()
	assert.Equal(t, 2, before.Len())

	writeFile(t, filepath.Join(root, "docs", "b.docx"), "b")
	require.NoError(t, lib.Rescan(context.Background()))

	assert.Equal(t, 3, lib.Pool().Len())
	assert.Equal(t, 2, before.Len(), "earlier snapshot is untouched")
}

func TestLibrary_Folders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "x.pdf"), "x")
	writeFile(t, filepath.Join(root, "a", "y.pdf"), "y")
	writeFile(t, filepath.Join(root, "z.pdf"), "z")

	lib := NewLibrary(NewLibraryScanner(root, LibraryBaseURL), discardLogger())
	assert.Equal(t, []string{root, filepath.Join(root, "a"), filepath.Join(root, "b")}, lib.Folders())
}
