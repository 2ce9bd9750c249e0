package docsystem

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	models "reportdesk/internal/domain/models/docsystem"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

// docLibrary is a small document library with ids doc-1..doc-6
func docLibrary(t *testing.T) *models.DocumentPool {
	t.Helper()
	pool := models.NewDocumentPool(nil)
	insert := func(n *models.DocumentNode, parent *string) {
		require.NoError(t, pool.Insert(n, parent))
	}
	insert(&models.DocumentNode{ID: "doc-1", Name: "技术文档", Type: models.NodeTypeFolder}, nil)
	insert(&models.DocumentNode{ID: "doc-2", Name: "市场分析", Type: models.NodeTypeFolder}, nil)
	insert(&models.DocumentNode{ID: "doc-3", Name: "产品技术规格.pdf", Type: models.NodeTypeFile,
		Description: "产品技术详细说明", Content: "处理器: 高性能多核处理器", FileSize: 2048}, strPtr("doc-1"))
	insert(&models.DocumentNode{ID: "doc-4", Name: "API接口文档.docx", Type: models.NodeTypeFile,
		Description: "RESTful API接口说明"}, strPtr("doc-1"))
	insert(&models.DocumentNode{ID: "doc-5", Name: "市场调研报告.docx", Type: models.NodeTypeFile,
		Description: "2025年市场趋势分析", Content: "市场规模持续增长"}, strPtr("doc-2"))
	insert(&models.DocumentNode{ID: "doc-6", Name: "竞品分析.pdf", Type: models.NodeTypeFile}, strPtr("doc-2"))
	return pool
}

// reportLibrary is a report-library template forest
func reportLibrary() models.Forest {
	return models.Forest{
		&models.ReportFolder{ID: "dir-1", Name: "第一章 概述", Children: models.Forest{
			&models.ReportFolder{ID: "dir-1-1", Name: "1.1 项目背景", Children: models.Forest{}},
			&models.ReportFolder{ID: "dir-1-2", Name: "1.2 建设目标", Children: models.Forest{}},
		}},
		&models.ReportFolder{ID: "dir-2", Name: "第二章 技术方案", Children: models.Forest{}},
		&models.ReportFile{ID: "dir-note", Name: "说明"},
	}
}

// chapterStructure is a report with two empty chapters
func chapterStructure() models.Forest {
	return models.Forest{
		&models.ReportFolder{ID: "ch-1", Name: "第一章", Children: models.Forest{
			&models.ReportFolder{ID: "ch-1-1", Name: "1.1", Children: models.Forest{}},
		}},
		&models.ReportFolder{ID: "ch-2", Name: "第二章", Children: models.Forest{}},
	}
}
