// Package paths decides where the data file lives.
//
// The default location is accounts.json inside the per-user application
// directory. Users may point the vault elsewhere; that choice is recorded in a
// small plaintext bootstrap file next to the default location so it can be
// read before the (possibly encrypted) data file is opened. The custom path is
// re-validated on every lookup and silently ignored while it is unusable.
package paths

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/passvault/internal/client/storage"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/filex"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/mitchellh/go-homedir"
)

// DefaultLabel is shown instead of a path while the default location is used.
const DefaultLabel = "Default"

type bootstrap struct {
	CustomDataPath *string `json:"customDataPath"`
}

// Resolver maps the session to a concrete data file path.
type Resolver struct {
	baseDir string
	backend storage.Backend
	log     logging.Logger
}

// NewResolver returns a resolver rooted at baseDir. An empty baseDir selects
// DefaultBaseDir.
func NewResolver(baseDir string, backend storage.Backend, log logging.Logger) *Resolver {
	if baseDir == "" {
		baseDir = DefaultBaseDir()
	}
	return &Resolver{baseDir: baseDir, backend: backend, log: log.With("component", "paths")}
}

// DefaultBaseDir is the per-user application directory, falling back to a
// dot directory in the home folder when the platform has no config dir.
func DefaultBaseDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, common.AppName)
	}
	if home, err := homedir.Dir(); err == nil {
		return filepath.Join(home, "."+strings.ToLower(common.AppName))
	}
	return filepath.Join(".", "."+strings.ToLower(common.AppName))
}

func (r *Resolver) BaseDir() string { return r.baseDir }

// BootstrapPath is the location of the custom path pointer.
func (r *Resolver) BootstrapPath() string {
	return filepath.Join(r.baseDir, common.BootstrapFileName)
}

// DefaultPath returns the default data file path, creating its directory on
// the way. Directory creation failures are logged and otherwise ignored.
func (r *Resolver) DefaultPath() string {
	if err := r.backend.CreateDir(r.baseDir); err != nil {
		r.log.Warn(context.Background(), "create default data directory", "dir", r.baseDir, "err", err)
	}
	return filepath.Join(r.baseDir, common.DataFileName)
}

// CustomPath returns the recorded custom path, if any. It does not validate.
func (r *Resolver) CustomPath() (string, bool) {
	raw, err := r.backend.Read(r.BootstrapPath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.log.Warn(context.Background(), "read bootstrap file", "err", err)
		}
		return "", false
	}

	var b bootstrap
	if err := json.Unmarshal(raw, &b); err != nil {
		r.log.Warn(context.Background(), "parse bootstrap file", "err", err)
		return "", false
	}
	if b.CustomDataPath == nil || strings.TrimSpace(*b.CustomDataPath) == "" {
		return "", false
	}
	return *b.CustomDataPath, true
}

// CurrentPath returns the custom path when one is recorded and still valid,
// otherwise the default path. It is evaluated on every call.
func (r *Resolver) CurrentPath() string {
	if custom, ok := r.CustomPath(); ok {
		if r.backend.ValidatePath(custom) {
			return custom
		}
		r.log.Warn(context.Background(), "custom data path unusable, using default", "path", custom)
	}
	return r.DefaultPath()
}

// IsUsingDefault reports whether CurrentPath resolves to the default path.
func (r *Resolver) IsUsingDefault() bool {
	return r.CurrentPath() == r.DefaultPath()
}

// DisplayPath is CurrentPath for humans.
func (r *Resolver) DisplayPath() string {
	if r.IsUsingDefault() {
		return DefaultLabel
	}
	return r.CurrentPath()
}

// SetCustomPath validates path and records it. An empty path resets to the
// default location. On failure nothing is recorded and the returned error
// wraps common.ErrInvalidPath.
func (r *Resolver) SetCustomPath(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return r.DefaultPath(), r.ResetToDefault(ctx)
	}

	abs, err := normalize(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", common.ErrInvalidPath, path, err)
	}

	if !r.backend.ValidatePath(abs) {
		return "", fmt.Errorf("%w: %s is not writable", common.ErrInvalidPath, abs)
	}
	if err := r.backend.CreateDir(filepath.Dir(abs)); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidPath, err)
	}

	if err := r.record(ctx, &abs); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidPath, err)
	}

	r.log.Info(ctx, "custom data path set", "path", abs)
	return abs, nil
}

// ResetToDefault clears the recorded custom path.
func (r *Resolver) ResetToDefault(ctx context.Context) error {
	if err := r.record(ctx, nil); err != nil {
		return err
	}
	r.log.Info(ctx, "data path reset to default")
	return nil
}

// record rewrites the bootstrap pointer. It is replaced atomically and, unlike
// the data file, gets no .backup copy.
func (r *Resolver) record(ctx context.Context, path *string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(bootstrap{CustomDataPath: path}, "", "  ")
	if err != nil {
		return err
	}
	if err := r.backend.CreateDir(r.baseDir); err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(r.BootstrapPath(), raw); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return nil
}

// normalize expands a leading ~ and makes path absolute. A path naming a
// directory (trailing separator) gets the data file name appended.
func normalize(path string) (string, error) {
	p, err := homedir.Expand(strings.TrimSpace(path))
	if err != nil {
		return "", err
	}
	if strings.HasSuffix(p, string(filepath.Separator)) || strings.HasSuffix(p, "/") {
		p = filepath.Join(p, common.DataFileName)
	}
	return filepath.Abs(p)
}
