// Package scan builds document pools from directories on disk.
package scan

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/treeops"
)

// LibraryBaseURL is where the server publishes LIBRARY_ROOT
const LibraryBaseURL = "/files/library"

// libraryExtensions are the only files picked up from library folders
var libraryExtensions = map[string]bool{
	".docx": true,
	".pdf":  true,
}

var orderingPrefix = regexp.MustCompile(`^\d+_`)

// LibraryScanner reads a two-level document library: each top-level
// directory becomes a folder, and the .docx and .pdf files directly inside
// it become its documents. Loose files at the root and deeper directories
// are ignored.
type LibraryScanner struct {
	root    string
	baseURL string
}

// NewLibraryScanner creates a scanner over root, publishing file URLs
// under baseURL
func NewLibraryScanner(root, baseURL string) *LibraryScanner {
	return &LibraryScanner{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Root returns the scanned directory
func (s *LibraryScanner) Root() string {
	return s.root
}

// Scan walks the library and returns it as a pool. A missing root yields
// an empty pool.
func (s *LibraryScanner) Scan() (*models.DocumentPool, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewDocumentPool(nil), nil
		}
		return nil, fmt.Errorf("read library root %s: %w", s.root, err)
	}

	pool := models.NewDocumentPool(nil)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirPath := filepath.Join(s.root, entry.Name())
		folder := &models.DocumentNode{
			ID:   libraryID(dirPath),
			Name: entry.Name(),
			Type: models.NodeTypeFolder,
		}
		if err := pool.Insert(folder, nil); err != nil {
			return nil, fmt.Errorf("add library folder %s: %w", dirPath, err)
		}

		files, err := s.scanFolder(dirPath, entry.Name())
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if err := pool.Insert(f, &folder.ID); err != nil {
				return nil, fmt.Errorf("add library file %s: %w", f.URL, err)
			}
		}
	}

	return pool, nil
}

func (s *LibraryScanner) scanFolder(dirPath, dirName string) ([]*models.DocumentNode, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("read library folder %s: %w", dirPath, err)
	}

	var files []*models.DocumentNode
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !libraryExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}

		filePath := filepath.Join(dirPath, entry.Name())
		modified := info.ModTime()
		files = append(files, &models.DocumentNode{
			ID:         libraryID(filePath),
			Name:       DisplayName(entry.Name()),
			Type:       models.NodeTypeFile,
			URL:        path.Join(s.baseURL, dirName, entry.Name()),
			FileType:   models.FileTypeFor(entry.Name()),
			FileSize:   info.Size(),
			UploadDate: &modified,
		})
	}
	return files, nil
}

// DisplayName turns a library file name into the name shown to users:
// "01_第一章_概述.docx" becomes "第一章 概述"
func DisplayName(fileName string) string {
	ext := filepath.Ext(fileName)
	name := fileName
	if libraryExtensions[strings.ToLower(ext)] {
		name = strings.TrimSuffix(fileName, ext)
	}
	name = orderingPrefix.ReplaceAllString(name, "")
	return strings.ReplaceAll(name, "_", " ")
}

// libraryID derives a stable id from the file's path
func libraryID(p string) string {
	return treeops.PrefixLibraryDir + hex.EncodeToString([]byte(filepath.ToSlash(p)))
}

// Library is the shared document library. Each rescan replaces the pool
// wholesale; readers keep whatever snapshot they already hold.
type Library struct {
	scanner *LibraryScanner
	logger  *slog.Logger

	mu   sync.RWMutex
	pool *models.DocumentPool
}

var _ docsysSvc.DocumentLibrary = (*Library)(nil)

// NewLibrary creates an empty library. Call Rescan to load it.
func NewLibrary(scanner *LibraryScanner, logger *slog.Logger) *Library {
	return &Library{
		scanner: scanner,
		logger:  logger,
		pool:    models.NewDocumentPool(nil),
	}
}

// Pool returns the current snapshot
func (l *Library) Pool() *models.DocumentPool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pool
}

// Rescan rebuilds the pool from disk. On error the old pool stays.
func (l *Library) Rescan(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pool, err := l.scanner.Scan()
	if err != nil {
		l.logger.Error("document library scan failed", "root", l.scanner.Root(), "error", err)
		return err
	}

	l.mu.Lock()
	l.pool = pool
	l.mu.Unlock()

	l.logger.Info("document library scanned", "root", l.scanner.Root(), "nodes", pool.Len())
	return nil
}

// Folders returns the directories that must be watched for changes: the
// root and every top-level folder
func (l *Library) Folders() []string {
	dirs := []string{l.scanner.Root()}
	entries, err := os.ReadDir(l.scanner.Root())
	if err != nil {
		return dirs
	}
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(l.scanner.Root(), entry.Name()))
		}
	}
	return dirs
}
