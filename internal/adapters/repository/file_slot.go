package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// FileSlot stores each key as a file under dir. Writes go through a temp file
// and a rename so a crash never leaves a half-written list behind.
type FileSlot struct {
	mu  sync.Mutex
	dir string
}

// NewFileSlot creates dir if needed and returns a slot rooted there
func NewFileSlot(dir string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileSlot{dir: dir}, nil
}

// Path returns the file backing key
func (s *FileSlot) Path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

func (s *FileSlot) Read(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read slot %q: %w", key, err)
	}
	return b, true, nil
}

func (s *FileSlot) Write(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync slot %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close slot %q: %w", key, err)
	}

	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace slot %q: %w", key, err)
	}
	return nil
}

func (s *FileSlot) Close() error {
	return nil
}
