// Package filesystem writes downloaded files so that a reader never sees a
// partially written target, and moves watched files without clobbering.
package filesystem

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// maxSuffix bounds the " (n)" suffixes tried by UniquePath.
const maxSuffix = 1000

// WriteStreamAtomic copies r into a hidden temp file beside target, syncs it
// and renames it over target. On failure target is untouched and the temp
// file is removed. It returns the number of bytes copied from r.
func WriteStreamAtomic(target string, r io.Reader, perm os.FileMode) (int64, error) {
	dir, base := filepath.Split(target)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: download directories are user-visible
		return 0, fmt.Errorf("creating parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.part")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmp, r)
	if err != nil {
		return n, fmt.Errorf("writing %s: %w", base, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return n, fmt.Errorf("setting mode on %s: %w", base, err)
	}
	if err := tmp.Sync(); err != nil {
		return n, fmt.Errorf("syncing %s: %w", base, err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("closing %s: %w", base, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return n, fmt.Errorf("replacing %s: %w", base, err)
	}
	committed = true
	syncDir(dir)
	return n, nil
}

// WriteFileAtomic writes data to target with the same guarantees as
// WriteStreamAtomic.
func WriteFileAtomic(target string, data []byte, perm os.FileMode) error {
	_, err := WriteStreamAtomic(target, bytes.NewReader(data), perm)
	return err
}

// Move relocates src to dst, creating dst's parent directory. When dst is
// taken, a " (n)" suffix is added before the extension. It returns the path
// the file ended up at. Moves across devices fall back to copy and delete.
func Move(src, dst string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", dst, err)
	}
	dst, err := UniquePath(dst)
	if err != nil {
		return "", err
	}

	err = os.Rename(src, dst)
	if err == nil {
		return dst, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("moving %s: %w", src, err)
	}
	if err := copyThenRemove(src, dst); err != nil {
		return "", fmt.Errorf("moving %s: %w", src, err)
	}
	return dst, nil
}

// UniquePath returns path if nothing exists there, otherwise the first free
// "name (n).ext" sibling.
func UniquePath(path string) (string, error) {
	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; i <= maxSuffix; i++ {
		candidate := stem + " (" + strconv.Itoa(i) + ")" + ext
		if _, err := os.Lstat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name for %s", path)
}

func copyThenRemove(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // G304: src is a file the watcher picked up
	if err != nil {
		return err
	}
	info, err := in.Stat()
	if err != nil {
		_ = in.Close()
		return err
	}
	_, err = WriteStreamAtomic(dst, in, info.Mode().Perm())
	_ = in.Close()
	if err != nil {
		return err
	}
	return os.Remove(src)
}

// syncDir flushes a directory entry after a rename. Not every platform
// supports it, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir) //nolint:gosec // G304: dir is the caller's target directory
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
