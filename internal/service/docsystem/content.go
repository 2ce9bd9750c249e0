package docsystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/converter"
)

type documentContentService struct {
	documents docsysSvc.DocumentLibrary
	uploads   docsysSvc.UploadsService
	resolver  docsysSvc.ContentResolver
	decoder   ContentDecoder
	logger    *slog.Logger
}

// NewDocumentContentService creates the on-demand content reader
func NewDocumentContentService(
	documents docsysSvc.DocumentLibrary,
	uploads docsysSvc.UploadsService,
	resolver docsysSvc.ContentResolver,
	decoder ContentDecoder,
	logger *slog.Logger,
) docsysSvc.DocumentContentService {
	return &documentContentService{
		documents: documents,
		uploads:   uploads,
		resolver:  resolver,
		decoder:   decoder,
		logger:    logger,
	}
}

// Find looks in the shared library, then in the user's uploads
func (s *documentContentService) Find(ctx context.Context, userID, id string) (*models.DocumentNode, error) {
	if node := s.documents.Pool().Get(id); node != nil {
		return node.Clone(), nil
	}
	node, err := s.uploads.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return node, nil
}

// GetContent resolves the document's body. Folders have none.
func (s *documentContentService) GetContent(ctx context.Context, userID, id string) (*docsysSvc.DocumentContent, error) {
	node, err := s.Find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if node.IsFolder() {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotAFile)
	}

	result := &docsysSvc.DocumentContent{
		Document:    node,
		FileName:    storedFileName(node),
		ContentType: "text/plain; charset=utf-8",
	}

	// Inline content was decoded at intake
	if node.Content != "" {
		result.Text = node.Content
		return result, nil
	}

	body, err := s.resolver.Resolve(ctx, node)
	if err != nil {
		return nil, err
	}

	text, err := s.decoder.Convert(ctx, result.FileName, body)
	switch {
	case err == nil:
		result.Text = text
		return result, nil
	case errors.Is(err, converter.ErrUnsupported):
		result.Raw = body
		result.ContentType = node.FileType
		if result.ContentType == "" {
			result.ContentType = models.FileTypeFor(result.FileName)
		}
		return result, nil
	default:
		s.logger.Warn("document content not decodable", "doc_id", id, "error", err)
		return nil, &domain.ValidationError{Message: fmt.Sprintf("document %s: %v", id, err)}
	}
}

// storedFileName prefers the URL's last segment: library display names have
// their extension stripped
func storedFileName(node *models.DocumentNode) string {
	if node.URL == "" {
		return node.Name
	}
	u, err := url.Parse(node.URL)
	if err != nil || u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return node.Name
	}
	return path.Base(u.Path)
}
