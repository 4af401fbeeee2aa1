package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrRendering marks a failure to produce the report file.
var ErrRendering = errors.New("rendering failure")

// Renderer lays out a document into a specific file format.
type Renderer interface {
	Format() string
	Render(w io.Writer, doc *Document) error
}

// Store writes rendered documents to disk all-or-nothing.
type Store struct {
	renderer Renderer
	logger   *zap.Logger
}

func NewStore(renderer Renderer, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{renderer: renderer, logger: logger}
}

// Write renders doc into a temporary file next to path and renames it into place.
// The temporary file is removed on any failure, so path is either fully written or untouched.
func (s *Store) Write(ctx context.Context, path string, doc *Document) (err error) {
	if s.renderer == nil {
		return fmt.Errorf("%w: renderer is not configured", ErrRendering)
	}
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrRendering)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrRendering, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temporary file: %w", ErrRendering, err)
	}

	defer func() {
		if err == nil {
			return
		}
		tmp.Close()
		if rmErr := os.Remove(tmp.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.logger.Warn("removing partial report", zap.String("path", tmp.Name()), zap.Error(rmErr))
		}
	}()

	if err = s.renderer.Render(tmp, doc); err != nil {
		return fmt.Errorf("%w: render %s: %w", ErrRendering, s.renderer.Format(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %w", ErrRendering, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrRendering, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("%w: chmod: %w", ErrRendering, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: move into place: %w", ErrRendering, err)
	}

	s.logger.Debug("report written",
		zap.String("path", path),
		zap.String("format", s.renderer.Format()),
	)

	return nil
}
