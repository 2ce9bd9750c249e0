package scan

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysRepo "reportdesk/internal/domain/repositories/docsystem"
	"reportdesk/internal/service/docsystem/treeops"
)

// UploadsBaseURL is where the server publishes UPLOADS_ROOT
const UploadsBaseURL = "/uploads"

// UserUpload is a file found under a user's uploads directory
type UserUpload struct {
	UserID string
	Node   *models.DocumentNode
}

// UploadsScanner reads root/<user>/<task>/<file>. Every file becomes a
// top-level upload of its user; task directories only contribute to ids.
type UploadsScanner struct {
	root    string
	baseURL string
	logger  *slog.Logger
}

// NewUploadsScanner creates a scanner over root
func NewUploadsScanner(root, baseURL string, logger *slog.Logger) *UploadsScanner {
	return &UploadsScanner{root: root, baseURL: baseURL, logger: logger}
}

// ScanUser returns one user's uploads. A user without a directory has none.
func (s *UploadsScanner) ScanUser(userID string) ([]*models.DocumentNode, error) {
	userDir := filepath.Join(s.root, userID)
	tasks, err := os.ReadDir(userDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.DocumentNode{}, nil
		}
		return nil, fmt.Errorf("read uploads of %s: %w", userID, err)
	}

	nodes := []*models.DocumentNode{}
	for _, task := range tasks {
		if !task.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(userDir, task.Name()))
		if err != nil {
			// One unreadable task does not hide the others
			s.logger.Warn("skipping unreadable upload task", "user_id", userID, "task_id", task.Name(), "error", err)
			continue
		}
		for _, file := range files {
			if !file.Type().IsRegular() {
				continue
			}
			info, err := file.Info()
			if err != nil {
				continue
			}
			modified := info.ModTime()
			nodes = append(nodes, &models.DocumentNode{
				ID:         UploadID(userID, task.Name(), file.Name()),
				Name:       file.Name(),
				Type:       models.NodeTypeFile,
				URL:        path.Join(s.baseURL, userID, task.Name(), url.PathEscape(file.Name())),
				FileType:   models.FileTypeFor(file.Name()),
				FileSize:   info.Size(),
				UploadDate: &modified,
			})
		}
	}
	return nodes, nil
}

// Scan returns the uploads of every user directory under root
func (s *UploadsScanner) Scan() ([]UserUpload, error) {
	users, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read uploads root %s: %w", s.root, err)
	}

	var uploads []UserUpload
	for _, user := range users {
		if !user.IsDir() {
			continue
		}
		nodes, err := s.ScanUser(user.Name())
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			uploads = append(uploads, UserUpload{UserID: user.Name(), Node: n})
		}
	}
	return uploads, nil
}

// Import adds every scanned upload that repo does not hold yet and
// returns how many were added
func (s *UploadsScanner) Import(ctx context.Context, repo docsysRepo.UploadRepository) (int, error) {
	uploads, err := s.Scan()
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, u := range uploads {
		err := repo.Create(ctx, u.UserID, u.Node)
		switch {
		case err == nil:
			imported++
		case errors.Is(err, domain.ErrConflict):
		default:
			return imported, fmt.Errorf("import upload %s: %w", u.Node.ID, err)
		}
	}

	s.logger.Info("uploads imported", "root", s.root, "found", len(uploads), "imported", imported)
	return imported, nil
}

// UploadID derives a stable id for a file on disk
func UploadID(userID, taskID, fileName string) string {
	return fmt.Sprintf("%s%s-%s-%s", treeops.PrefixUpload, userID, taskID, hex.EncodeToString([]byte(fileName)))
}
