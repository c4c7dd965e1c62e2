package cli

import (
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/toyz/ifacegen/internal/errors"
	"github.com/toyz/ifacegen/internal/templates"
	"github.com/toyz/ifacegen/internal/utils/fileops"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	files     *fileops.FileOps
	extension string
	logger    *zap.Logger
}

// NewCleaner creates a cleaner for generated files with the given extension
func NewCleaner(extension string, logger *zap.Logger) *Cleaner {
	extension = strings.TrimPrefix(extension, ".")
	if extension == "" {
		extension = templates.DefaultOptions().Extension
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cleaner{files: fileops.NewFileOps(), extension: extension, logger: logger.Named("cleaner")}
}

// CleanGeneratedFiles removes generated files from the specified directories and
// returns the removed paths. A directory ending in "/..." is cleaned recursively.
// Only "*.g.<ext>" files whose first line is the auto-generated marker are removed.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	var removedFiles []string

	for _, dir := range directories {
		if err := c.cleanDirectory(dir, &removedFiles); err != nil {
			return removedFiles, errors.Wrapf(errors.FileSystemErrorCode, err, "failed to clean directory %s", dir)
		}
	}
	return removedFiles, nil
}

// cleanDirectory handles both plain directories and "./..." patterns
func (c *Cleaner) cleanDirectory(dir string, removedFiles *[]string) error {
	if strings.HasSuffix(dir, "/...") {
		baseDir := strings.TrimSuffix(dir, "/...")
		if baseDir == "" {
			baseDir = "."
		}
		return c.cleanRecursively(baseDir, removedFiles)
	}
	return c.cleanSingleDirectory(dir, removedFiles)
}

// cleanRecursively cleans every directory below baseDir
func (c *Cleaner) cleanRecursively(baseDir string, removedFiles *[]string) error {
	return filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable directories are skipped
			c.logger.Debug("skipping path", zap.String("file", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return c.cleanSingleDirectory(path, removedFiles)
	})
}

// cleanSingleDirectory removes the generated files directly inside dir
func (c *Cleaner) cleanSingleDirectory(dir string, removedFiles *[]string) error {
	if !c.files.IsDir(dir) {
		return nil
	}

	entries, err := c.files.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !c.isGeneratedName(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		first, err := c.files.ReadFirstLine(path)
		if err != nil {
			return err
		}
		// editors may re-save generated files with a byte order mark
		if strings.TrimSpace(strings.TrimPrefix(first, "\ufeff")) != templates.AutoGeneratedMarker {
			c.logger.Debug("keeping hand-written file", zap.String("file", path))
			continue
		}

		if err := c.files.RemoveFile(path); err != nil {
			return err
		}
		c.logger.Debug("file removed", zap.String("file", path))
		*removedFiles = append(*removedFiles, path)
	}
	return nil
}

func (c *Cleaner) isGeneratedName(name string) bool {
	return strings.HasSuffix(name, ".g."+c.extension)
}
