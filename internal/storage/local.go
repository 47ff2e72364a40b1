package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UploadError reports a failed upload to the file store.
type UploadError struct {
	FileName string
	Err      error
}

// Error implements the error interface.
func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s failed: %v", e.FileName, e.Err)
}

// Unwrap returns the underlying cause.
func (e *UploadError) Unwrap() error { return e.Err }

// FileStore persists binary documents and returns a public URL for each.
type FileStore interface {
	Upload(ctx context.Context, data []byte, fileName string) (string, error)
}

// LocalFileStore writes uploads to local disk under date-based directories
// and builds URLs from a static base path.
type LocalFileStore struct {
	baseDir    string
	staticBase string
}

// NewLocalFileStore creates a LocalFileStore rooted at baseDir, serving
// files under staticBase.
func NewLocalFileStore(baseDir, staticBase string) *LocalFileStore {
	return &LocalFileStore{baseDir: baseDir, staticBase: staticBase}
}

// Upload writes the file under baseDir/YYYY/MM/DD/ and returns its URL.
func (s *LocalFileStore) Upload(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &UploadError{FileName: fileName, Err: err}
	}

	now := time.Now().UTC()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", &UploadError{FileName: fileName, Err: err}
	}

	absPath := filepath.Join(absDir, fileName)
	if err := os.WriteFile(absPath, data, 0644); err != nil {
		return "", &UploadError{FileName: fileName, Err: err}
	}

	relPath := filepath.Join(relDir, fileName)
	return s.staticBase + "/" + strings.ReplaceAll(relPath, "\\", "/"), nil
}
