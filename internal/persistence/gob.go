// Package persistence stores snapshots as gob files.
package persistence

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// SaveGob encodes object with gob and writes it to filePath. The file is
// written next to its final location and renamed, so readers never see a
// partial snapshot. Missing directories are created.
func SaveGob(filePath string, object interface{}) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(object); err != nil {
		closeQuietly(tmp)
		removeQuietly(tmpPath)
		return fmt.Errorf("failed to gob encode to file %s: %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		removeQuietly(tmpPath)
		return fmt.Errorf("failed to close file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		removeQuietly(tmpPath)
		return fmt.Errorf("failed to move snapshot to %s: %w", filePath, err)
	}
	return nil
}

// LoadGob decodes a gob-encoded file from filePath into the provided object pointer.
// If the file does not exist, it returns os.ErrNotExist, allowing callers to handle
// fresh starts gracefully.
func LoadGob(filePath string, objectPointer interface{}) error {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer closeQuietly(file)

	if err := gob.NewDecoder(file).Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to gob decode from file %s: %w", filePath, err)
	}
	return nil
}

func closeQuietly(file *os.File) {
	if err := file.Close(); err != nil {
		slog.Warn("failed to close file", slog.String("path", file.Name()), slog.String("error", err.Error()))
	}
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove temporary file", slog.String("path", path), slog.String("error", err.Error()))
	}
}
