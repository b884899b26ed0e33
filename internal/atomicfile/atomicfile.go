// Package atomicfile replaces files without exposing partial writes.
package atomicfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Write streams the output of fill into a temporary file next to path and
// renames it into place once fill and the flush succeed. On any error the
// temporary file is removed and path is left untouched.
//
// A perm of 0 keeps the mode of an existing file, or 0644 for a new one.
func Write(path string, perm os.FileMode, fill func(w io.Writer) error) (err error) {
	if perm == 0 {
		perm = 0o644
		if st, statErr := os.Stat(path); statErr == nil {
			perm = st.Mode().Perm()
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	_ = tmp.Chmod(perm)

	buf := bufio.NewWriter(tmp)
	if err = fill(buf); err != nil {
		return err
	}
	if err = buf.Flush(); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Renaming over an existing file fails on Windows.
	if err = os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(path)
		if err2 := os.Rename(tmp.Name(), path); err2 != nil {
			return fmt.Errorf("rename temp file: %w", err)
		}
		err = nil
	}
	return nil
}

// WriteFile writes data to path atomically.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	return Write(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
