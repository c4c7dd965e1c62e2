package cli

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/toyz/ifacegen/internal/models"
	"github.com/toyz/ifacegen/internal/utils/fileops"
)

// Writer writes generated units into an output directory
type Writer struct {
	dir    string
	files  *fileops.FileOps
	logger *zap.Logger
}

// NewWriter creates a writer for dir
func NewWriter(dir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{dir: dir, files: fileops.NewFileOps(), logger: logger.Named("writer")}
}

// Write stores unit as <dir>/<hint name>. Files whose content is already current are
// left untouched and reported as unchanged.
func (w *Writer) Write(unit *models.GeneratedUnit) (string, bool, error) {
	path, err := w.files.PathValidator().Join(w.dir, unit.HintName)
	if err != nil {
		return "", false, err
	}

	if w.files.Exists(path) {
		if existing, err := w.files.ReadFile(path); err == nil && bytes.Equal(existing, unit.Content) {
			return path, false, nil
		}
	}

	if err := w.files.EnsureDir(w.dir); err != nil {
		return "", false, err
	}
	if err := w.files.WriteFile(path, unit.Content, 0o644); err != nil {
		return "", false, err
	}

	w.logger.Debug("file written",
		zap.String("file", path),
		zap.String("interface", unit.InterfaceName),
		zap.Int("bytes", len(unit.Content)))
	return path, true, nil
}
