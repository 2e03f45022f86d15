package descriptor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	fileMode = 0o644
	dirMode  = 0o755
)

// Writer writes descriptor files below a root directory and echoes each
// file to Echo before writing it.
type Writer struct {
	Root string
	// Echo receives "<path>:\n<content>" for every file. Nil disables it.
	Echo io.Writer
	// CreateDirs creates missing schema directories. When false a missing
	// schema directory is a write error.
	CreateDirs bool
	Logger     *slog.Logger
}

// NewWriter returns a Writer for root. A nil logger discards logs.
func NewWriter(root string, echo io.Writer, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{Root: root, Echo: echo, Logger: logger}
}

// Write stores d as <root>/<schema>/<shortName>.json, replacing any
// existing file, and returns the path written.
func (w *Writer) Write(d Descriptor, shortName string) (string, error) {
	path := Path(w.Root, d.Schema, shortName)
	content := d.Render()

	if w.Echo != nil {
		if _, err := fmt.Fprintf(w.Echo, "%s:\n%s", path, content); err != nil {
			return "", fmt.Errorf("failed to echo %s: %w", path, err)
		}
	}

	if w.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
			return "", fmt.Errorf("failed to create schema directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(content), fileMode); err != nil {
		return "", fmt.Errorf("failed to write descriptor: %w", err)
	}

	w.logger().Debug("descriptor written", slog.String("path", path))
	return path, nil
}

func (w *Writer) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.Logger
}
