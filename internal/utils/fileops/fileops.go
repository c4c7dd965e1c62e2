// Package fileops wraps the file system operations used to read manifests and
// write generated units.
package fileops

import (
	"bufio"
	"os"
	"path/filepath"
)

// FileOps combines path validation and error wrapping for file operations
type FileOps struct {
	pathValidator *PathValidator
	errorWrapper  *ErrorWrapper
}

// NewFileOps creates a new FileOps instance
func NewFileOps() *FileOps {
	return &FileOps{
		pathValidator: NewPathValidator(),
		errorWrapper:  NewErrorWrapper(),
	}
}

// PathValidator returns the path validator instance
func (fo *FileOps) PathValidator() *PathValidator {
	return fo.pathValidator
}

// ReadFile reads a file with path validation
func (fo *FileOps) ReadFile(filePath string) ([]byte, error) {
	cleanPath, err := fo.pathValidator.ValidateAndClean(filePath)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fo.errorWrapper.WrapFileReadError(cleanPath, err)
	}
	return content, nil
}

// ReadFirstLine returns the first line of a file without reading the rest
func (fo *FileOps) ReadFirstLine(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fo.errorWrapper.WrapFileReadError(filePath, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fo.errorWrapper.WrapFileReadError(filePath, err)
	}
	return "", nil
}

// EnsureDir creates dir and its parents when missing
func (fo *FileOps) EnsureDir(dir string) error {
	cleanPath, err := fo.pathValidator.ValidateAndCleanOptional(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cleanPath, 0o755); err != nil {
		return fo.errorWrapper.WrapDirectoryCreateError(cleanPath, err)
	}
	return nil
}

// WriteFile writes content atomically: it is written to a temporary file in the
// same directory and renamed over the target.
func (fo *FileOps) WriteFile(filePath string, content []byte, perm os.FileMode) error {
	cleanPath, err := fo.pathValidator.ValidateAndCleanOptional(filePath)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(cleanPath), "."+filepath.Base(cleanPath)+".*")
	if err != nil {
		return fo.errorWrapper.WrapFileWriteError(cleanPath, err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(content)
	closeErr := tmp.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Chmod(tmpName, perm)
	}
	if writeErr == nil {
		writeErr = os.Rename(tmpName, cleanPath)
	}
	if writeErr != nil {
		os.Remove(tmpName)
		return fo.errorWrapper.WrapFileWriteError(cleanPath, writeErr)
	}
	return nil
}

// RemoveFile removes a file with path validation
func (fo *FileOps) RemoveFile(filePath string) error {
	cleanPath, err := fo.pathValidator.ValidateAndClean(filePath)
	if err != nil {
		return err
	}

	if err := os.Remove(cleanPath); err != nil {
		return fo.errorWrapper.WrapFileRemovalError(cleanPath, err)
	}
	return nil
}

// ReadDir reads a directory with path validation
func (fo *FileOps) ReadDir(dirPath string) ([]os.DirEntry, error) {
	cleanPath, err := fo.pathValidator.ValidateAndClean(dirPath)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(cleanPath)
	if err != nil {
		return nil, fo.errorWrapper.WrapDirectoryReadError(cleanPath, err)
	}
	return entries, nil
}

// Exists checks if a path exists
func (fo *FileOps) Exists(path string) bool {
	return fo.pathValidator.Exists(path)
}

// IsDir checks if a path is a directory
func (fo *FileOps) IsDir(path string) bool {
	return fo.pathValidator.IsDir(path)
}
