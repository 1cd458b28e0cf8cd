// Package storage persists uploaded documents to the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Accepted upload extensions, lowercased.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".csv":  true,
	".xlsx": true,
}

// UploadStore writes uploaded documents under a base directory. Stored names
// are generated, so caller-supplied filenames can never collide or escape
// the base directory.
type UploadStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewUploadStore creates a new UploadStore
func NewUploadStore(baseDir string, logger *zap.Logger) *UploadStore {
	return &UploadStore{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Save writes content under the base directory and returns the stored path.
// The original filename contributes only its extension, which must be one of
// the accepted document types.
func (s *UploadStore) Save(originalName string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}

	fullPath := filepath.Join(s.baseDir, uuid.NewString()+ext)
	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create upload directory",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write upload",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("Upload saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))

	return fullPath, nil
}

// Remove deletes a previously stored upload.
func (s *UploadStore) Remove(fullPath string) error {
	if err := s.validatePath(fullPath); err != nil {
		return err
	}
	return os.Remove(fullPath)
}

// validatePath checks that the path stays within baseDir.
func (s *UploadStore) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}

	return nil
}
