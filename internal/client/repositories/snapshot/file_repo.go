package snapshot

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/codec"
	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/storage"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

// FileRepository implements Repository on top of a storage.Backend.
type FileRepository struct {
	paths   PathSource
	backend storage.Backend
	codec   Codec
	log     logging.Logger
	now     func() time.Time

	mu         sync.Mutex
	cache      *models.Snapshot
	lastDigest [sha256.Size]byte

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]Listener
}

func NewFileRepository(paths PathSource, backend storage.Backend, c Codec, log logging.Logger) *FileRepository {
	return &FileRepository{
		paths:   paths,
		backend: backend,
		codec:   c,
		log:     log.With("component", "repository"),
		now:     time.Now,
		subs:    make(map[int]Listener),
	}
}

func (r *FileRepository) Path() string {
	return r.paths.CurrentPath()
}

func (r *FileRepository) Get(ctx context.Context) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache != nil {
		return r.cache, nil
	}
	return r.loadLocked(ctx)
}

func (r *FileRepository) loadLocked(ctx context.Context) (*models.Snapshot, error) {
	path := r.paths.CurrentPath()

	raw, err := r.backend.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		raw = nil
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		r.log.Info(ctx, "no data file, starting empty", "path", path)
		r.cache = models.NewSnapshot(r.now())
		r.lastDigest = sha256.Sum256(raw)
		return r.cache, nil
	}

	s, err := r.codec.Decode(raw)
	if err != nil {
		if errors.Is(err, common.ErrEncryptionPending) {
			r.log.Info(ctx, "data file is encrypted, waiting for passphrase", "path", path)
		} else {
			r.log.Error(ctx, "load data file", "path", path, "err", err)
		}
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	r.cache = s
	r.lastDigest = sha256.Sum256(raw)
	r.log.Debug(ctx, "data file loaded", "path", path, "groups", len(s.Groups))
	return s, nil
}

func (r *FileRepository) Save(ctx context.Context, s *models.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	path := r.paths.CurrentPath()

	if !r.codec.HasPassphrase() && r.cache == nil {
		if existing, err := r.backend.Read(path); err == nil && codec.DetectEncrypted(existing) {
			r.mu.Unlock()
			return fmt.Errorf("save %s: %w", path, common.ErrEncryptionPending)
		}
	}

	raw, err := r.codec.Encode(s)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := r.backend.Write(ctx, path, raw); err != nil {
		r.mu.Unlock()
		r.log.Error(ctx, "save data file", "path", path, "err", err)
		return fmt.Errorf("save %s: %w", path, err)
	}

	r.cache = s
	r.lastDigest = sha256.Sum256(raw)
	r.mu.Unlock()

	r.log.Debug(ctx, "data file saved", "path", path, "encrypted", r.codec.HasPassphrase())
	r.notify(s)
	return nil
}

func (r *FileRepository) InvalidateCache() {
	r.mu.Lock()
	r.cache = nil
	r.mu.Unlock()
}

func (r *FileRepository) Reload(ctx context.Context) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache = nil
	s, err := r.loadLocked(ctx)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	r.notify(s)
	return s, nil
}

func (r *FileRepository) Unlock(ctx context.Context, passphrase []byte) (*models.Snapshot, error) {
	r.codec.SetPassphrase(passphrase)

	s, err := r.Reload(ctx)
	if err != nil {
		r.codec.ClearPassphrase()
		return nil, err
	}
	return s, nil
}

func (r *FileRepository) Import(ctx context.Context, path string, passphrase []byte) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := r.backend.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: import %s: %w", common.ErrStorage, path, err)
		}
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("import %s: %w: empty file", path, common.ErrFormat)
	}

	var s *models.Snapshot
	if passphrase != nil && codec.DetectEncrypted(raw) {
		s, err = codec.Decrypt(raw, passphrase, r.now())
	} else {
		s, err = r.codec.Decode(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}

	r.log.Info(ctx, "snapshot imported", "path", path, "groups", len(s.Groups))
	return s, nil
}

func (r *FileRepository) Export(ctx context.Context, path string) error {
	s, err := r.Get(ctx)
	if err != nil {
		return err
	}
	return r.writeExternal(ctx, path, s)
}

func (r *FileRepository) Backup(ctx context.Context, dest string) error {
	s, err := r.Get(ctx)
	if err != nil {
		return err
	}

	next := s.Clone()
	next.LastBackup = r.now()

	if err := r.writeExternal(ctx, dest, next); err != nil {
		return err
	}
	return r.Save(ctx, next)
}

func (r *FileRepository) writeExternal(ctx context.Context, path string, s *models.Snapshot) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", common.ErrInvalidPath, path, err)
	}
	if abs == r.paths.CurrentPath() {
		return fmt.Errorf("%w: %s is the live data file", common.ErrInvalidPath, abs)
	}

	raw, err := r.codec.Encode(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.backend.Write(ctx, abs, raw); err != nil {
		return fmt.Errorf("export %s: %w", abs, err)
	}

	r.log.Info(ctx, "snapshot exported", "path", abs, "encrypted", r.codec.HasPassphrase())
	return nil
}

func (r *FileRepository) Subscribe(fn Listener) func() {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	id := r.nextSubID
	r.nextSubID++
	r.subs[id] = fn

	return func() {
		r.subMu.Lock()
		delete(r.subs, id)
		r.subMu.Unlock()
	}
}

func (r *FileRepository) notify(s *models.Snapshot) {
	r.subMu.Lock()
	fns := make([]Listener, 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// isOwnWrite reports whether raw is what this repository last wrote or read.
func (r *FileRepository) isOwnWrite(raw []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sha256.Sum256(raw) == r.lastDigest
}
