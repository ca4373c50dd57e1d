package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend() *FileBackend {
	return NewFileBackend(logging.Nop())
}

func TestFileBackend_ReadMissing(t *testing.T) {
	_, err := newBackend().Read(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileBackend_ReadDirectoryIsStorageError(t *testing.T) {
	_, err := newBackend().Read(t.TempDir())
	assert.ErrorIs(t, err, common.ErrStorage)
}

func TestFileBackend_WriteCreatesDirAndNoBackupFirstTime(t *testing.T) {
	b := newBackend()
	path := filepath.Join(t.TempDir(), "nested", "accounts.json")

	require.NoError(t, b.Write(context.Background(), path, []byte("v1")))

	got, err := b.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))
	assert.False(t, b.Exists(BackupPath(path)))
}

func TestFileBackend_WriteKeepsPreviousAsBackup(t *testing.T) {
	b := newBackend()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "accounts.json")

	require.NoError(t, b.Write(ctx, path, []byte("v1")))
	require.NoError(t, b.Write(ctx, path, []byte("v2")))
	require.NoError(t, b.Write(ctx, path, []byte("v3")))

	cur, err := b.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "v3", string(cur))

	bak, err := b.Read(path + ".backup")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(bak))
}

func TestFileBackend_WriteHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "accounts.json")
	require.ErrorIs(t, newBackend().Write(ctx, path, []byte("x")), context.Canceled)
	assert.False(t, newBackend().Exists(path))
}

func TestFileBackend_WriteFailureIsStorageError(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := newBackend().Write(context.Background(), filepath.Join(blocker, "accounts.json"), []byte("x"))
	assert.ErrorIs(t, err, common.ErrStorage)
}

func TestFileBackend_ValidatePath(t *testing.T) {
	b := newBackend()
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file.txt")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing dir", filepath.Join(tmp, "accounts.json"), true},
		{"creatable dir", filepath.Join(tmp, "a", "b", "accounts.json"), true},
		{"empty", "  ", false},
		{"path is a directory", tmp, false},
		{"parent is a file", filepath.Join(blocker, "accounts.json"), false},
		{"ancestor is a file", filepath.Join(blocker, "x", "accounts.json"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.ValidatePath(tt.path))
		})
	}

	_, err := os.Stat(filepath.Join(tmp, "a"))
	assert.True(t, os.IsNotExist(err), "validation must not create directories")
}

func TestFileBackend_CreateDirAndExists(t *testing.T) {
	b := newBackend()
	dir := filepath.Join(t.TempDir(), "x")

	require.NoError(t, b.CreateDir(dir))
	assert.True(t, b.IsWritable(dir))
	assert.False(t, b.Exists(dir), "directories are not data files")
}
