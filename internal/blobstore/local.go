package blobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hrsync/tcsync/internal/errs"
)

// LocalStore stores blobs as files under a working directory. Writes go
// through a temp file plus rename so a reader never observes a partially
// written artifact — the same atomic-write discipline the teacher's restic
// binary extractor uses for on-disk state.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a LocalStore rooted at dir, creating it if absent.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: failed to create blob directory %q: %s", errs.ErrInternal, dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key))
}

// GetJSON reads the file for key. Absence is reported as blobstore.ErrNotFound.
func (s *LocalStore) GetJSON(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: failed to read %q: %s", errs.ErrTransport, key, err)
	}
	return data, nil
}

// PutJSON atomically replaces the file for key: write to a temp file in the
// same directory, then rename into place, so a crash mid-write never leaves
// a truncated artifact visible to the next stage.
func (s *LocalStore) PutJSON(_ context.Context, key string, data []byte) error {
	dest := s.path(key)

	tmp, err := os.CreateTemp(s.dir, filepath.Base(key)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file for %q: %s", errs.ErrInternal, key, err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to write %q: %s", errs.ErrInternal, key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temp file for %q: %s", errs.ErrInternal, key, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("%w: failed to move %q into place: %s", errs.ErrInternal, key, err)
	}

	success = true
	return nil
}
