package snapshot

import (
	"context"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
)

// Listener receives the snapshot that just became current.
type Listener func(s *models.Snapshot)

// Repository is the persistence contract used by the services.
type Repository interface {
	// Get returns the cached snapshot, loading it on first use. A missing or
	// blank file yields a fresh empty snapshot.
	Get(ctx context.Context) (*models.Snapshot, error)

	// Save writes s to the current path and makes it the cached snapshot.
	Save(ctx context.Context, s *models.Snapshot) error

	// InvalidateCache forgets the cached snapshot.
	InvalidateCache()

	// Reload re-reads the current file and notifies subscribers.
	Reload(ctx context.Context) (*models.Snapshot, error)

	// Unlock supplies the passphrase and reloads. On failure the passphrase
	// is discarded again.
	Unlock(ctx context.Context, passphrase []byte) (*models.Snapshot, error)

	// Import reads an external file without making it current. A nil
	// passphrase uses the session passphrase for encrypted files.
	Import(ctx context.Context, path string, passphrase []byte) (*models.Snapshot, error)

	// Export writes the current snapshot to path in the current mode.
	Export(ctx context.Context, path string) error

	// Backup stamps LastBackup, exports to dest and saves.
	Backup(ctx context.Context, dest string) error

	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn Listener) (unsubscribe func())

	// Path is the data file path in use right now.
	Path() string

	// Watch streams changes made to the data file by other writers.
	Watch(ctx context.Context, debounce time.Duration) (<-chan Event, error)
}

// PathSource resolves the data file location.
type PathSource interface {
	CurrentPath() string
}

// Codec converts between snapshots and file content.
type Codec interface {
	Decode(raw []byte) (*models.Snapshot, error)
	Encode(s *models.Snapshot) ([]byte, error)
	SetPassphrase(p []byte)
	ClearPassphrase()
	HasPassphrase() bool
}
