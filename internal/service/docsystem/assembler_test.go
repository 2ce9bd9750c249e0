package docsystem

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
)

var generatedAt = time.Date(2026, 3, 9, 15, 4, 5, 0, time.UTC)

func TestSerialize_DepthDrivesHeadingLevel(t *testing.T) {
	structure := models.Forest{
		&models.ReportFolder{ID: "A", Name: "A", Children: models.Forest{
			&models.ReportFile{ID: "a1", Name: "a1", Content: "body a1"},
			&models.ReportFolder{ID: "A2", Name: "A2", Children: models.Forest{
				&models.ReportFile{ID: "a2", Name: "a2", Description: "about a2"},
			}},
		}},
		&models.ReportFile{ID: "b", Name: "b"},
	}

	text, err := NewReportAssembler(discardLogger()).Serialize(structure, "  投标书  ", generatedAt)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "# 投标书\n\n生成日期: 2026-03-09\n\n---\n\n"))

	headings := []string{"\n## A\n", "\n### a1\n", "\n### A2\n", "\n#### a2\n", "\n## b\n"}
	last := -1
	for _, h := range headings {
		i := strings.Index(text, h)
		require.GreaterOrEqual(t, i, 0, "missing heading %q", h)
		assert.Greater(t, i, last, "heading %q out of order", h)
		last = i
	}

	assert.Contains(t, text, "\n### a1\n\nbody a1\n\n")
	assert.Contains(t, text, "\n#### a2\n\n> about a2\n\n")
}

func TestSerialize_ExactOutput(t *testing.T) {
	structure := models.Forest{
		&models.ReportFolder{ID: "c", Name: "第一章", Children: models.Forest{
			&models.ReportFile{ID: "f", Name: "报告.docx", Description: "说明", Content: "正文"},
		}},
	}

	text, err := NewReportAssembler(discardLogger()).Serialize(structure, "R", generatedAt)
	require.NoError(t, err)

	want := "# R\n\n生成日期: 2026-03-09\n\n---\n\n" +
		"\n## 第一章\n\n" +
		"\n### 报告.docx\n\n> 说明\n\n正文\n\n"
	assert.Equal(t, want, text)
}

func TestSerialize_Preconditions(t *testing.T) {
	withDocs := models.Forest{&models.ReportFile{ID: "f", Name: "f"}}
	foldersOnly := models.Forest{&models.ReportFolder{ID: "c", Name: "c", Children: models.Forest{}}}

	tests := []struct {
		name      string
		report    string
		structure models.Forest
		wantErr   error
	}{
		{"blank name wins", " ", models.Forest{}, domain.ErrEmptyName},
		{"empty structure", "r", models.Forest{}, domain.ErrEmptyStructure},
		{"nil structure", "r", nil, domain.ErrEmptyStructure},
		{"folders only", "r", foldersOnly, domain.ErrNoDocuments},
		{"ok", "r", withDocs, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReportAssembler(discardLogger()).Serialize(tt.structure, tt.report, generatedAt)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "年度报告.txt", NewReportAssembler(discardLogger()).FileName(" 年度报告 "))
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "N/A"},
		{-5, "N/A"},
		{1, "1 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{5*1024*1024 + 512*1024, "5.50 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.in), "FormatFileSize(%d)", tt.in)
	}
}
