package docsystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"reportdesk/internal/config"
	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysRepo "reportdesk/internal/domain/repositories/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/converter"
	"reportdesk/internal/service/docsystem/scan"
	"reportdesk/internal/service/docsystem/treeops"
)

// ContentDecoder turns uploaded bytes into text by file name
type ContentDecoder interface {
	Convert(ctx context.Context, filename string, content []byte) (string, error)
}

type uploadsService struct {
	uploadRepo docsysRepo.UploadRepository
	decoder    ContentDecoder
	ids        treeops.IDGenerator
	now        func() time.Time
	logger     *slog.Logger
}

// NewUploadsService creates the per-user uploads pool service
func NewUploadsService(
	uploadRepo docsysRepo.UploadRepository,
	decoder ContentDecoder,
	ids treeops.IDGenerator,
	logger *slog.Logger,
) docsysSvc.UploadsService {
	return &uploadsService{
		uploadRepo: uploadRepo,
		decoder:    decoder,
		ids:        ids,
		now:        time.Now,
		logger:     logger,
	}
}

// Pool returns the user's uploads as a flat document pool
func (s *uploadsService) Pool(ctx context.Context, userID string) (*models.DocumentPool, error) {
	nodes, err := s.uploadRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		n.ParentID = nil
	}
	return models.NewDocumentPool(nodes), nil
}

// Add stages a file with status LOCAL
func (s *uploadsService) Add(ctx context.Context, req *docsysSvc.AddUploadRequest) (*models.DocumentNode, error) {
	if req.UserID == "" {
		return nil, &domain.ValidationError{Message: "user id is required"}
	}
	name, err := validateName("file name", req.Filename, config.MaxNodeNameLength)
	if err != nil {
		return nil, err
	}
	if len(req.Content) > config.MaxUploadSize {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("file %q exceeds %d bytes", name, config.MaxUploadSize),
		}
	}

	if err := validateUploadURL(req.UserID, req.URL); err != nil {
		return nil, err
	}

	fileType := req.FileType
	if fileType == "" {
		fileType = models.FileTypeFor(name)
	}

	now := s.now()
	node := &models.DocumentNode{
		ID:          s.ids.NewID(treeops.PrefixUpload),
		Name:        name,
		Type:        models.NodeTypeFile,
		FileType:    fileType,
		FileSize:    int64(len(req.Content)),
		URL:         req.URL,
		UploadDate:  &now,
		Description: strings.TrimSpace(req.Description),
		Status:      models.StatusLocal,
	}

	if len(req.Content) > 0 {
		content, err := s.decoder.Convert(ctx, name, req.Content)
		switch {
		case err == nil:
			node.Content = content
		case errors.Is(err, converter.ErrUnsupported):
			// Office formats keep metadata only; content comes through URL
			s.logger.Debug("upload kept without text content", "name", name, "file_type", fileType)
		default:
			return nil, &domain.ValidationError{Message: fmt.Sprintf("file %q: %v", name, err)}
		}
	}

	if err := s.uploadRepo.Create(ctx, req.UserID, node); err != nil {
		return nil, err
	}

	s.logger.Info("upload staged",
		"id", node.ID,
		"name", node.Name,
		"size", node.FileSize,
		"user_id", req.UserID,
	)
	return node, nil
}

// Get returns one of the user's uploads
func (s *uploadsService) Get(ctx context.Context, userID, id string) (*models.DocumentNode, error) {
	return s.uploadRepo.GetByID(ctx, id, userID)
}

// Rename trims and sets an upload's name
func (s *uploadsService) Rename(ctx context.Context, userID, id, name string) (*docsysSvc.RenameResult, error) {
	newName, err := validateName("file name", name, config.MaxNodeNameLength)
	if err != nil {
		return nil, err
	}

	var oldName string
	err = s.edit(ctx, userID, id, func(pool *models.DocumentPool) error {
		old, err := pool.Rename(id, newName)
		oldName = old
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("upload renamed", "id", id, "old_name", oldName, "new_name", newName)
	return &docsysSvc.RenameResult{ID: id, OldName: oldName, NewName: newName}, nil
}

// Delete removes an upload. Report references to it keep their snapshot.
func (s *uploadsService) Delete(ctx context.Context, userID, id string) error {
	pool, err := s.Pool(ctx, userID)
	if err != nil {
		return err
	}
	if !pool.Remove(id) {
		return fmt.Errorf("upload %s: %w", id, domain.ErrNotFound)
	}
	if err := s.uploadRepo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("upload deleted", "id", id, "user_id", userID, "remaining", pool.Len())
	return nil
}

// Confirm records the backend-assigned id as the upload's status
func (s *uploadsService) Confirm(ctx context.Context, userID, id, serverID string) (*models.DocumentNode, error) {
	serverID = strings.TrimSpace(serverID)
	if serverID == "" || serverID == models.StatusLocal || serverID == models.StatusPending {
		return nil, &domain.ValidationError{Message: "server id is required"}
	}

	var confirmed *models.DocumentNode
	err := s.edit(ctx, userID, id, func(pool *models.DocumentPool) error {
		if err := pool.Update(id, func(n *models.DocumentNode) { n.Status = serverID }); err != nil {
			return err
		}
		confirmed = pool.Get(id).Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("upload confirmed", "id", id, "server_id", serverID)
	return confirmed, nil
}

// edit runs fn against the user's pool and stores the edited upload
func (s *uploadsService) edit(ctx context.Context, userID, id string, fn func(pool *models.DocumentPool) error) error {
	pool, err := s.Pool(ctx, userID)
	if err != nil {
		return err
	}
	if err := fn(pool); err != nil {
		return err
	}
	return s.uploadRepo.UpdateMetadata(ctx, userID, pool.Get(id))
}

// validateUploadURL accepts only paths the server publishes for the
// user's own uploads, e.g. /uploads/<user>/<task>/<file>
func validateUploadURL(userID, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return &domain.ValidationError{Message: fmt.Sprintf("url %q must be a path under %s", raw, scan.UploadsBaseURL)}
	}
	prefix := path.Join(scan.UploadsBaseURL, userID) + "/"
	if !strings.HasPrefix(path.Clean(u.Path), prefix) {
		return &domain.ValidationError{Message: fmt.Sprintf("url %q must be a path under %s", raw, prefix)}
	}
	return nil
}
