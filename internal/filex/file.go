// Package filex contains small filesystem helpers shared by the storage
// layer: directory creation, writability probing, byte-exact copies and
// atomic replacement of files.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/passvault/internal/common"
)

const (
	DirPerm  os.FileMode = 0o700
	FilePerm os.FileMode = 0o600
)

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// IsWritable probes dir by creating and removing a throwaway file in it.
// Permission bits alone are not trusted; only a successful write counts.
func IsWritable(dir string) bool {
	suffix, err := common.MakeRandHexString(8)
	if err != nil {
		return false
	}

	probe := filepath.Join(dir, ".probe-"+suffix)
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_EXCL|os.O_WRONLY, FilePerm)
	if err != nil {
		return false
	}
	_ = f.Close()

	return os.Remove(probe) == nil
}

// NearestExistingDir walks up from dir and returns the first ancestor that
// exists. The second result is false when the first existing ancestor is not
// a directory, which means dir can never be created.
func NearestExistingDir(dir string) (string, bool) {
	cur := filepath.Clean(dir)
	for {
		fi, err := os.Stat(cur)
		if err == nil {
			return cur, fi.IsDir()
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", false
		}
		cur = parent
	}
}

// CopyFile copies src to dst byte for byte, replacing dst if it exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, FilePerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}

	return out.Close()
}

// WriteFileAtomic writes data to a temporary file in the destination
// directory, syncs it and renames it over path. Readers observe either the
// old content or the new content, never a partial write.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, FilePerm); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename %s: %w", path, err)
	}

	return nil
}
