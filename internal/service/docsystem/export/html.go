// Package export renders assembled reports for download.
package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/converter/sanitizer"
)

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<article>
{{.Body}}
</article>
</body>
</html>
`))

type htmlRenderer struct {
	markdown  goldmark.Markdown
	sanitizer *sanitizer.HTMLSanitizer
	logger    *slog.Logger
}

// NewHTMLRenderer creates a renderer that turns the assembled markdown-like
// report text into a standalone, sanitized HTML page
func NewHTMLRenderer(logger *slog.Logger) docsysSvc.ReportRenderer {
	return &htmlRenderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		sanitizer: sanitizer.NewHTMLSanitizer(),
		logger:    logger,
	}
}

// RenderHTML converts text and wraps it in a page titled reportName
func (r *htmlRenderer) RenderHTML(ctx context.Context, reportName, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := r.markdown.Convert([]byte(text), &body); err != nil {
		return "", fmt.Errorf("convert report markdown: %w", err)
	}

	clean := r.sanitizer.Sanitize(body.String())

	var page bytes.Buffer
	err := pageTemplate.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{reportName, template.HTML(clean)})
	if err != nil {
		return "", fmt.Errorf("render report page: %w", err)
	}

	r.logger.Debug("report rendered as html", "name", reportName, "bytes", page.Len())
	return page.String(), nil
}
