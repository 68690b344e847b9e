package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the snapshot in a single JSON file. Writes go through a
// temp file and rename so a crash mid-write never corrupts the slot.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed snapshot slot at dir/<slot>.json.
func NewFileStore(dir, slot string) (*FileStore, error) {
	if slot == "" {
		slot = DefaultSlot
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, slot+".json")}, nil
}

// Path returns the location of the snapshot file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the snapshot file, or ErrNotFound if it does not exist.
func (s *FileStore) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

// Save atomically replaces the snapshot file contents.
func (s *FileStore) Save(_ context.Context, data []byte) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot file. A missing file is not an error.
func (s *FileStore) Delete(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
