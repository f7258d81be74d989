package filestorage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/gradesheet/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Ensure the base path exists
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// Save writes data to a uuid-named file that keeps the original extension
func (ls *LocalStorage) Save(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(ls.basePath, uniqueFilename)

	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write archived upload")
		// Attempt to remove the partially written file
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("filename", filename).Str("saved_as", uniqueFilename).Msg("File saved successfully")
	return dstPath, nil
}

// Delete removes a stored file. Paths outside the storage root are rejected.
func (ls *LocalStorage) Delete(storedPath string) error {
	fullPath := ls.GetFullPath(storedPath)
	if fullPath == "" {
		return fmt.Errorf("invalid stored path %q", storedPath)
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFullPath maps a stored path back onto the storage root.
func (ls *LocalStorage) GetFullPath(storedPath string) string {
	filename := filepath.Base(storedPath)
	if filename == "" || filename == "." || filename == "/" || filename == ".." {
		return ""
	}

	return filepath.Join(ls.basePath, filename)
}
