package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "a", "b", "c")

	require.NoError(t, EnsureDir(dir))

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}

	require.NoError(t, EnsureDir(dir), "should be idempotent")
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	require.Error(t, EnsureDir(filepath.Join(blocker, "sub")))
}

func TestIsWritable(t *testing.T) {
	tmp := t.TempDir()
	require.True(t, IsWritable(tmp))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.Empty(t, entries, "probe file must be removed")

	require.False(t, IsWritable(filepath.Join(tmp, "missing")))
}

func TestNearestExistingDir(t *testing.T) {
	tmp := t.TempDir()

	got, ok := NearestExistingDir(filepath.Join(tmp, "x", "y"))
	require.True(t, ok)
	require.Equal(t, tmp, got)

	file := filepath.Join(tmp, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	got, ok = NearestExistingDir(filepath.Join(file, "sub"))
	require.False(t, ok)
	require.Equal(t, file, got)
}

func TestCopyFile_ExactBytes(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "dst")

	payload := []byte{0x00, 0x01, 'a', '\n', 0xff}
	require.NoError(t, os.WriteFile(src, payload, 0o600))
	require.NoError(t, os.WriteFile(dst, []byte("old and longer content"), 0o600))

	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestCopyFile_MissingSource(t *testing.T) {
	tmp := t.TempDir()
	require.Error(t, CopyFile(filepath.Join(tmp, "nope"), filepath.Join(tmp, "dst")))
}

func TestWriteFileAtomic_ReplacesAndLeavesNoTemp(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "accounts.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one")))
	require.NoError(t, WriteFileAtomic(path, []byte("two")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "two", string(got))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	tmp := t.TempDir()
	require.Error(t, WriteFileAtomic(filepath.Join(tmp, "missing", "f.json"), []byte("x")))
}
