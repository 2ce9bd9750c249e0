package converter

import (
	"context"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/converter/sanitizer"
)

// htmlConverter turns uploaded HTML (often an office export) into markdown
// that can be embedded in an assembled report. Tables survive as GFM
// tables.
type htmlConverter struct {
	sanitizer *sanitizer.HTMLSanitizer
	converter *md.Converter
}

// NewHTMLConverter creates a new HTML to markdown converter
func NewHTMLConverter() docsysSvc.ContentConverter {
	conv := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		BulletListMarker: "-",
		StrongDelimiter:  "**",
		CodeBlockStyle:   "fenced",
	})
	conv.Use(plugin.Table(), plugin.Strikethrough(""))

	return &htmlConverter{
		sanitizer: sanitizer.NewHTMLSanitizer(),
		converter: conv,
	}
}

// Convert sanitizes html, then converts what is left
func (c *htmlConverter) Convert(ctx context.Context, input []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	markdown, err := c.converter.ConvertString(c.sanitizer.Sanitize(string(input)))
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return markdown, nil
}

func (c *htmlConverter) SupportedExtensions() []string {
	return []string{".html", ".htm"}
}

func (c *htmlConverter) Name() string {
	return "html"
}
