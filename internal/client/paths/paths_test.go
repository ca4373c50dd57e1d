package paths

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/client/storage"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T) (*Resolver, string) {
	t.Helper()
	base := filepath.Join(t.TempDir(), "app")
	return NewResolver(base, storage.NewFileBackend(logging.Nop()), logging.Nop()), base
}

func TestResolver_DefaultPath(t *testing.T) {
	r, base := newResolver(t)

	assert.Equal(t, filepath.Join(base, "accounts.json"), r.DefaultPath())
	fi, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	assert.Equal(t, r.DefaultPath(), r.CurrentPath())
	assert.True(t, r.IsUsingDefault())
	assert.Equal(t, DefaultLabel, r.DisplayPath())
}

func TestResolver_SetCustomPath(t *testing.T) {
	r, base := newResolver(t)
	ctx := context.Background()
	target := filepath.Join(t.TempDir(), "vault", "mine.json")

	got, err := r.SetCustomPath(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, target, got)
	assert.Equal(t, target, r.CurrentPath())
	assert.False(t, r.IsUsingDefault())
	assert.Equal(t, target, r.DisplayPath())

	raw, err := os.ReadFile(filepath.Join(base, "datapath.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"customDataPath"`)
	assert.Contains(t, string(raw), "mine.json")
}

func TestResolver_SetCustomPathDirectorySuffix(t *testing.T) {
	r, _ := newResolver(t)
	dir := t.TempDir() + string(filepath.Separator)

	got, err := r.SetCustomPath(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "accounts.json"), got)
}

func TestResolver_SetCustomPathInvalidKeepsDefault(t *testing.T) {
	r, base := newResolver(t)
	blocker := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := r.SetCustomPath(context.Background(), filepath.Join(blocker, "protected", "data.json"))
	require.ErrorIs(t, err, common.ErrInvalidPath)

	assert.Equal(t, filepath.Join(base, "accounts.json"), r.CurrentPath())
	_, ok := r.CustomPath()
	assert.False(t, ok)
}

func TestResolver_CustomPathRevalidatedEveryCall(t *testing.T) {
	r, _ := newResolver(t)
	dir := filepath.Join(t.TempDir(), "removable")
	target := filepath.Join(dir, "accounts.json")

	_, err := r.SetCustomPath(context.Background(), target)
	require.NoError(t, err)
	require.Equal(t, target, r.CurrentPath())

	// replace the directory with a file so nothing can ever be created there
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o600))
	assert.Equal(t, r.DefaultPath(), r.CurrentPath())

	custom, ok := r.CustomPath()
	assert.True(t, ok, "pointer is kept")
	assert.Equal(t, target, custom)

	require.NoError(t, os.Remove(dir))
	assert.Equal(t, target, r.CurrentPath(), "usable again once the obstacle is gone")
}

func TestResolver_ResetToDefault(t *testing.T) {
	r, base := newResolver(t)
	ctx := context.Background()

	_, err := r.SetCustomPath(ctx, filepath.Join(t.TempDir(), "a.json"))
	require.NoError(t, err)

	_, err = r.SetCustomPath(ctx, "")
	require.NoError(t, err)
	assert.True(t, r.IsUsingDefault())

	raw, err := os.ReadFile(filepath.Join(base, "datapath.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"customDataPath": null}`, string(raw))
}

func TestResolver_BootstrapHasNoBackup(t *testing.T) {
	r, base := newResolver(t)
	ctx := context.Background()

	_, err := r.SetCustomPath(ctx, filepath.Join(t.TempDir(), "a.json"))
	require.NoError(t, err)
	_, err = r.SetCustomPath(ctx, filepath.Join(t.TempDir(), "b.json"))
	require.NoError(t, err)
	require.NoError(t, r.ResetToDefault(ctx))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"datapath.json"}, names)
}

func TestResolver_CorruptBootstrapFallsBack(t *testing.T) {
	r, base := newResolver(t)
	require.NoError(t, os.MkdirAll(base, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(base, "datapath.json"), []byte("{nope"), 0o600))

	_, ok := r.CustomPath()
	assert.False(t, ok)
	assert.Equal(t, r.DefaultPath(), r.CurrentPath())
}

func TestNormalize_ExpandsHome(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("HOME", "/home/tester")

	got, err := normalize("~/vault/accounts.json")
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/vault/accounts.json", got)
}

func TestDefaultBaseDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if runtime.GOOS == "linux" {
		assert.Equal(t, "/tmp/xdg/PassVault", DefaultBaseDir())
	}
	assert.NotEmpty(t, DefaultBaseDir())
}
