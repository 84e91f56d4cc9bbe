// Package output delivers generated receipts: files on disk and a workbook manifest.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"billgen/internal/logger"
	"github.com/rs/zerolog"
)

// DirEmitter writes each document as a file in one directory.
type DirEmitter struct {
	dir string
	log zerolog.Logger
}

// NewDirEmitter creates dir if needed and returns an emitter writing into it.
func NewDirEmitter(dir string) (*DirEmitter, error) {
	const op = "NewDirEmitter"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: failed to create output directory %s: %w", op, dir, err)
	}
	return &DirEmitter{
		dir: dir,
		log: logger.WithComponent("emitter"),
	}, nil
}

// Dir returns the output directory.
func (e *DirEmitter) Dir() string {
	return e.dir
}

// Emit writes data to dir/name. Existing files with the same name are replaced.
func (e *DirEmitter) Emit(ctx context.Context, name string, data []byte) error {
	const op = "Emit"

	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%s: invalid file name %q", op, name)
	}

	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%s: failed to write %s: %w", op, path, err)
	}

	e.log.Debug().
		Str("file", path).
		Int("bytes", len(data)).
		Msg("Bill written")
	return nil
}

// DiscardEmitter drops every document. It backs dry runs.
type DiscardEmitter struct{}

// Emit implements billing.Emitter.
func (DiscardEmitter) Emit(ctx context.Context, name string, data []byte) error {
	return ctx.Err()
}
