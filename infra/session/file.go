// Package session persists the login session as a single JSON snapshot on
// disk, the Go counterpart of the browser's scoped key-value entry.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gmahli/fsaas/core/model"
)

// FileStore reads and writes one session snapshot at a fixed path.
type FileStore struct {
	path string
}

// NewFileStore creates a store at path. The parent directory must exist or
// be creatable.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("session path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("session dir: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Load reads the snapshot. The second return is false when no snapshot
// exists; a corrupt snapshot is reported as an error.
func (s *FileStore) Load() (model.Session, bool, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Session{}, false, nil
	}
	if err != nil {
		return model.Session{}, false, err
	}
	var sess model.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return model.Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	return sess, true, nil
}

// Save replaces the snapshot. Written via a temp file and rename so a
// crash mid-write never leaves a torn snapshot.
func (s *FileStore) Save(sess model.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the snapshot. Missing snapshots are not an error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
