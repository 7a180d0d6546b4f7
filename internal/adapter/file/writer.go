package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/draogmims2caom2/internal/caom"
)

// Writer stores each observation as <dir>/<observation ID>.json.
// It implements pipeline.Loader.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a file sink rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Path returns where obs is written.
func (w *Writer) Path(obs *caom.Observation) string {
	return filepath.Join(w.dir, filepath.Base(obs.ObservationID)+".json")
}

// Load writes obs atomically: a temporary file is renamed into place.
func (w *Writer) Load(ctx context.Context, obs *caom.Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(obs, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize observation: %w", err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := w.Path(obs)
	tmp, err := os.CreateTemp(w.dir, ".observation-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write observation: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write observation: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write observation: %w", err)
	}

	w.logger.Debug("observation written", "path", path)
	return nil
}
