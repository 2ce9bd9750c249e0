package converter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	docsysSvc "reportdesk/internal/domain/services/docsystem"
)

// ErrUnsupported is returned for files without a text converter, such as
// .docx and .pdf, whose content is fetched through their URL instead
var ErrUnsupported = errors.New("unsupported file type")

// ConverterRegistry routes uploaded files to a converter by extension.
// Safe for concurrent use.
type ConverterRegistry struct {
	mu         sync.RWMutex
	converters map[string]docsysSvc.ContentConverter // key: file extension (e.g., ".html")
}

// NewConverterRegistry creates a registry with standard converters pre-registered.
func NewConverterRegistry() *ConverterRegistry {
	registry := &ConverterRegistry{
		converters: make(map[string]docsysSvc.ContentConverter),
	}

	// Register standard converters
	registry.Register(NewMarkdownConverter())
	registry.Register(NewTextConverter())
	registry.Register(NewHTMLConverter())

	return registry
}

// Register associates a converter with its extensions, normalized to
// lowercase with a leading dot. A later registration wins.
func (r *ConverterRegistry) Register(converter docsysSvc.ContentConverter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range converter.SupportedExtensions() {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.converters[ext] = converter
	}
}

// GetConverter retrieves a converter for the given file extension.
// Returns nil if no converter is registered for this extension.
//
// Extension lookup is case-insensitive.
func (r *ConverterRegistry) GetConverter(fileExt string) docsysSvc.ContentConverter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.converters[strings.ToLower(fileExt)]
}

// Convert picks the converter for filename's extension.
// Returns ErrUnsupported when none is registered.
func (r *ConverterRegistry) Convert(ctx context.Context, filename string, content []byte) (string, error) {
	ext := filepath.Ext(filename)
	converter := r.GetConverter(ext)

	if converter == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	return converter.Convert(ctx, content)
}

// Supports reports whether filename has a registered converter
func (r *ConverterRegistry) Supports(filename string) bool {
	return r.GetConverter(filepath.Ext(filename)) != nil
}

// SupportedExtensions returns all registered file extensions, sorted
func (r *ConverterRegistry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.converters))
	for ext := range r.converters {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}
