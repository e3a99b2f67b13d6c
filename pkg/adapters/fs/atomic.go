package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix marks in-flight writes. Find, Reconcile and the watcher skip
// files carrying it.
const TempFilePrefix = "propbind-tmp-"

// writeFileAtomic stages data in a sibling temp file and renames it over
// path. Readers see either the previous record or the new one, never a torn
// write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", filepath.Base(path), err)
	}
	staged := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(staged)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write staged record: %w", err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to chmod staged record: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync staged record: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close staged record: %w", err)
	}
	if err = os.Rename(staged, path); err != nil {
		return fmt.Errorf("failed to move record into place at %s: %w", path, err)
	}

	// Persist the rename itself. Not every platform can fsync a directory.
	if d, derr := os.Open(dir); derr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
