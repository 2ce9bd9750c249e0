package docsystem

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/treeops"
)

const (
	// generatedDateLabel precedes the generation date in the title block
	generatedDateLabel = "生成日期"

	// generatedDateLayout is YYYY-MM-DD
	generatedDateLayout = "2006-01-02"

	// headingOffset keeps level 1 for the report title
	headingOffset = 2
)

type reportAssembler struct {
	logger *slog.Logger
}

// NewReportAssembler creates the text serializer for finished reports
func NewReportAssembler(logger *slog.Logger) docsysSvc.ReportAssembler {
	return &reportAssembler{logger: logger}
}

// Serialize renders the title block and then every node in pre-order
func (a *reportAssembler) Serialize(structure models.Forest, reportName string, generatedAt time.Time) (string, error) {
	name := strings.TrimSpace(reportName)
	switch {
	case name == "":
		return "", fmt.Errorf("report name: %w", domain.ErrEmptyName)
	case len(structure) == 0:
		return "", fmt.Errorf("report %q: %w", name, domain.ErrEmptyStructure)
	case !treeops.HasDocuments(structure):
		return "", fmt.Errorf("report %q: %w", name, domain.ErrNoDocuments)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s: %s\n\n---\n\n", name, generatedDateLabel, generatedAt.Format(generatedDateLayout))
	writeSection(&b, structure, 0)

	folders, files := treeops.CountNodes(structure)
	a.logger.Info("report assembled",
		"name", name,
		"folders", folders,
		"files", files,
		"bytes", b.Len(),
	)
	return b.String(), nil
}

// FileName returns "<name>.txt"
func (a *reportAssembler) FileName(reportName string) string {
	return strings.TrimSpace(reportName) + ".txt"
}

func writeSection(b *strings.Builder, nodes models.Forest, depth int) {
	marker := strings.Repeat("#", depth+headingOffset)
	for _, node := range nodes {
		fmt.Fprintf(b, "\n%s %s\n\n", marker, node.NodeName())

		switch n := node.(type) {
		case *models.ReportFolder:
			writeSection(b, n.Children, depth+1)
		case *models.ReportFile:
			if n.Description != "" {
				fmt.Fprintf(b, "> %s\n\n", n.Description)
			}
			if n.Content != "" {
				fmt.Fprintf(b, "%s\n\n", n.Content)
			}
		}
	}
}

// FormatFileSize renders a byte count for display: "N/A" for zero, then
// B, KB or MB with two decimals
func FormatFileSize(bytes int64) string {
	const kb = 1024
	switch {
	case bytes <= 0:
		return "N/A"
	case bytes < kb:
		return fmt.Sprintf("%d B", bytes)
	case bytes < kb*kb:
		return fmt.Sprintf("%.2f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%.2f MB", float64(bytes)/(kb*kb))
	}
}
