package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temp file beside path and renames it into
// place, so readers never observe a truncated file. The mode of an existing
// file is preserved; mode is used when path does not exist yet.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return writeAtomic(path, mode, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// ErrEmpty is returned by CopyToFileAtomic when the reader yields no bytes.
var ErrEmpty = errors.New("empty content")

// CopyToFileAtomic streams r into path with the same guarantees as
// WriteFileAtomic and returns the number of bytes written. An empty stream is
// rejected with ErrEmpty and path is left untouched.
func CopyToFileAtomic(path string, r io.Reader, mode os.FileMode) (int64, error) {
	var written int64
	err := writeAtomic(path, mode, func(w io.Writer) error {
		n, err := io.Copy(w, r)
		written = n
		if err == nil && n == 0 {
			return ErrEmpty
		}
		return err
	})
	return written, err
}

func writeAtomic(path string, mode os.FileMode, fill func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// SizeAbove reports whether path is a regular file larger than minBytes,
// along with its size. A missing file is not an error.
func SizeAbove(path string, minBytes int64) (bool, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, 0, nil
		}
		return false, 0, err
	}
	if !info.Mode().IsRegular() {
		return false, info.Size(), fmt.Errorf("%s is not a regular file", path)
	}
	return info.Size() > minBytes, info.Size(), nil
}

// Exists reports whether path exists as a regular file.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
