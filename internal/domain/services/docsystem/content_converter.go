package docsystem

import "context"

// ContentConverter decodes an uploaded file into text a report can embed.
// Implementations must be safe for concurrent use.
type ContentConverter interface {
	// Convert transforms raw file bytes to text
	Convert(ctx context.Context, input []byte) (string, error)

	// SupportedExtensions returns the handled extensions with the leading dot
	SupportedExtensions() []string

	// Name identifies the converter in logs
	Name() string
}

// ContentAnalyzer measures document text for the tree view
type ContentAnalyzer interface {
	CountWords(text string) int
	CleanMarkdown(text string) string
}
