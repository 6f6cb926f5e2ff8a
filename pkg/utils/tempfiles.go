package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// CreateTempFile creates a temp file in dir with a unique name and extension.
// Returns the full path and the open file handle.
func CreateTempFile(dir, prefix, ext string) (string, *os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), ext)
	fullPath := filepath.Join(dir, name)
	f, err := os.OpenFile(fullPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", nil, err
	}
	return fullPath, f, nil
}

// WriteTempFile creates a temp file holding content and closes it.
func WriteTempFile(dir, prefix, ext, content string) (string, error) {
	path, f, err := CreateTempFile(dir, prefix, ext)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// RemoveTempFile deletes a temp file. A missing file is not an error.
func RemoveTempFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveAllTempFiles removes temp files in tempDir matching the given prefix and
// extension that were last modified more than olderThan ago; zero removes all.
// Example: RemoveAllTempFiles("/tmp/pueue", "edit", ".txt", time.Hour) removes
// stale files like edit_*.txt.
// Returns a combined error if any files could not be deleted.
func RemoveAllTempFiles(tempDir, prefix, ext string, olderThan time.Duration) error {
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		return nil // Nothing to clean
	}

	pattern := filepath.Join(tempDir, fmt.Sprintf("%s_*%s", prefix, ext))
	files, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to glob temp files: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	var errs []error
	for _, file := range files {
		if olderThan > 0 {
			info, err := os.Stat(file)
			if err != nil || info.ModTime().After(cutoff) {
				continue
			}
		}
		if err := os.Remove(file); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", file, err))
		}
	}
	return errors.Join(errs...)
}

// TempFileExists checks if a temp file exists.
func TempFileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
