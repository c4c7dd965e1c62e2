package fileops

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/ifacegen/internal/errors"
)

// PathValidator provides centralized path validation and cleaning functionality
type PathValidator struct{}

// NewPathValidator creates a new PathValidator instance
func NewPathValidator() *PathValidator {
	return &PathValidator{}
}

// ValidateAndClean cleans a path and requires it to exist
func (pv *PathValidator) ValidateAndClean(filePath string) (string, error) {
	cleanPath, err := pv.ValidateAndCleanOptional(filePath)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", errors.WrapFileSystemError("stat", cleanPath, err)
	}
	return cleanPath, nil
}

// ValidateAndCleanOptional cleans a path but doesn't require it to exist
func (pv *PathValidator) ValidateAndCleanOptional(filePath string) (string, error) {
	if filePath == "" {
		return "", errors.NewValidationError("path", filePath, "must not be empty")
	}

	cleanPath := filepath.Clean(filePath)

	// ".." is only allowed as a leading relative prefix
	if strings.Contains(cleanPath, "..") && !strings.HasPrefix(cleanPath, "..") {
		return "", errors.NewValidationError("path", filePath, "path traversal is not allowed")
	}
	return cleanPath, nil
}

// Join resolves name inside root and rejects names that would escape it
func (pv *PathValidator) Join(root, name string) (string, error) {
	if name == "" || filepath.IsAbs(name) || name != filepath.Base(name) {
		return "", errors.NewValidationError("file name", name, "must be a plain file name")
	}
	return filepath.Join(filepath.Clean(root), name), nil
}

// Exists checks if a path exists
func (pv *PathValidator) Exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// IsDir checks if a path exists and is a directory
func (pv *PathValidator) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
