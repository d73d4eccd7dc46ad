// Package blobstore persists opaque byte blobs keyed by name. It is the
// durable half of the database: the engine serializes its whole image here
// after every mutation and restores from it on startup.
package blobstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Store is the durable key-value blob interface the engine writes through.
type Store interface {
	// Load returns the blob saved under name, or nil if none exists.
	Load(name string) ([]byte, error)
	// Save replaces the blob under name. The replacement is atomic: an
	// interrupted save never corrupts a previously saved blob.
	Save(name string, data []byte) error
}

// FileStore keeps each blob in its own file under a base directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the base directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("blob store directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create blob store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load reads the blob for name. A missing blob is a normal first-run
// condition and returns (nil, nil).
func (s *FileStore) Load(name string) ([]byte, error) {
	path, err := s.blobPath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %q: %w", name, err)
	}
	return data, nil
}

// Save writes data to a temporary file and renames it over the target, so
// the previous blob survives a save interrupted mid-write.
func (s *FileStore) Save(name string, data []byte) error {
	path, err := s.blobPath(name)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write blob %q: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			slog.Debug("failed to remove temporary blob file", "error", rmErr, "path", tmp)
		}
		return fmt.Errorf("failed to replace blob %q: %w", name, err)
	}
	return nil
}

// blobPath validates the name against path traversal and maps it to a file.
func (s *FileStore) blobPath(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("blob name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid blob name: cannot contain path separators")
	}
	return filepath.Join(s.dir, name+".blob"), nil
}
