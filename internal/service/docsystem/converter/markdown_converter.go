package converter

import (
	"context"

	docsysSvc "reportdesk/internal/domain/services/docsystem"
)

// markdownConverter keeps markdown as is since assembled reports are
// markdown already. Only the encoding is normalized.
type markdownConverter struct{}

// NewMarkdownConverter creates a new markdown passthrough converter
func NewMarkdownConverter() docsysSvc.ContentConverter {
	return &markdownConverter{}
}

func (c *markdownConverter) Convert(ctx context.Context, input []byte) (string, error) {
	return decodeText(input)
}

func (c *markdownConverter) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

func (c *markdownConverter) Name() string {
	return "markdown"
}
