package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend keeps the history as a JSON array in a single file.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (fb *FileBackend) Load(_ context.Context) ([]Record, error) {
	data, err := os.ReadFile(fb.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	return decodeRecords(data)
}

// Save writes to a temporary file in the same directory and renames it over
// the target, so readers see either the old or the new snapshot.
func (fb *FileBackend) Save(_ context.Context, records []Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(fb.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fb.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp history file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp history file: %w", err)
	}

	if err := os.Rename(tmpName, fb.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}
