// file: internal/fileops/safe_operations.go
// version: 2.0.0
// guid: 8f7e6d5c-4b3a-2918-7f6e-5d4c3b2a1908

package fileops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
)

// ErrDestinationExists is returned instead of overwriting an existing file
var ErrDestinationExists = errors.New("destination already exists")

// WriteExclusive writes data to path without ever clobbering an existing
// file. Data is written and synced to a temporary sibling first, then
// linked into place, so readers never observe a partial file.
func WriteExclusive(path string, data []byte) error {
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrDestinationExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat destination: %w", err)
	}

	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), ulid.Make()))

	// Step 1: write the temporary file
	if err := writeSynced(tmpPath, data); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	defer os.Remove(tmpPath)

	// Step 2: link it into place; link fails if the destination appeared meanwhile
	if err := os.Link(tmpPath, path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrDestinationExists, path)
		}
		// Filesystems without hard links fall back to an exclusive create.
		return createExclusive(path, data)
	}

	return nil
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	// Sync to ensure data is written to disk
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	return f.Close()
}

func createExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrDestinationExists, path)
		}
		return fmt.Errorf("failed to create destination: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("failed to write destination: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("failed to sync destination: %w", err)
	}
	return f.Close()
}

// RemoveConverted deletes src once dst is known to exist and be non-empty.
// It refuses to remove a file that is also the destination.
func RemoveConverted(src, dst string) error {
	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	dstAbs, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if srcAbs == dstAbs {
		return fmt.Errorf("refusing to remove %s: source and destination are the same file", src)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("failed to verify destination: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("refusing to remove %s: destination %s is empty", src, dst)
	}

	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove converted file: %w", err)
	}
	return nil
}
