// Package storage is the byte-level persistence layer of the vault. It knows
// nothing about the document format; it reads and writes whole files, keeps a
// copy of the previous file before each overwrite and answers whether a
// location can be used at all.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/filex"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

// Backend abstracts file access for the repository and the path resolver.
type Backend interface {
	// Read returns the file content. A missing file yields an error that
	// matches os.ErrNotExist.
	Read(path string) ([]byte, error)

	// Write replaces path with data. If path already exists its previous
	// content is copied to BackupPath(path) first.
	Write(ctx context.Context, path string, data []byte) error

	Exists(path string) bool
	CreateDir(dir string) error

	// IsWritable probes dir with a real write.
	IsWritable(dir string) bool

	// ValidatePath reports whether a data file could be written at path.
	ValidatePath(path string) bool
}

// BackupPath is where the previous version of path is kept.
func BackupPath(path string) string {
	return path + common.BackupExtension
}

// FileBackend implements Backend on the local filesystem.
type FileBackend struct {
	log logging.Logger
}

func NewFileBackend(log logging.Logger) *FileBackend {
	return &FileBackend{log: log.With("component", "storage")}
}

func (b *FileBackend) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read %s: %w", common.ErrStorage, path, err)
	}
	return data, nil
}

func (b *FileBackend) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		b.log.Warn(ctx, "create data directory", "path", path, "err", err)
	}

	if b.Exists(path) {
		if err := filex.CopyFile(path, BackupPath(path)); err != nil {
			b.log.Warn(ctx, "backup before overwrite failed", "path", path, "err", err)
		}
	}

	if err := filex.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	b.log.Debug(ctx, "file written", "path", path, "bytes", len(data))
	return nil
}

func (b *FileBackend) Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func (b *FileBackend) CreateDir(dir string) error {
	if err := filex.EnsureDir(dir); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return nil
}

func (b *FileBackend) IsWritable(dir string) bool {
	return filex.IsWritable(dir)
}

// ValidatePath accepts path when it does not name a directory and its parent
// either exists and passes the write probe, or could be created under an
// existing writable ancestor.
func (b *FileBackend) ValidatePath(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return false
	}

	dir := filepath.Dir(path)
	if fi, err := os.Stat(dir); err == nil {
		return fi.IsDir() && b.IsWritable(dir)
	}

	ancestor, ok := filex.NearestExistingDir(dir)
	if !ok {
		return false
	}
	return b.IsWritable(ancestor)
}
