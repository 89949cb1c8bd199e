package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"memorize/internal/stack"
)

// JSONStore keeps every window in a single JSON document on disk.
type JSONStore struct {
	path    string
	mu      sync.Mutex
	windows map[string][][]stack.Record
	closed  bool
}

func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{
		path:    path,
		windows: make(map[string][][]stack.Record),
	}

	dump, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(dump, &s.windows); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return s, nil
}

func (s *JSONStore) Load(window string) ([][]stack.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	return s.windows[window], nil
}

func (s *JSONStore) Save(window string, stacks [][]stack.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	if len(stacks) == 0 {
		delete(s.windows, window)
	} else {
		s.windows[window] = stacks
	}
	return s.dump()
}

func (s *JSONStore) Windows() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	windows := make([]string, 0, len(s.windows))
	for w := range s.windows {
		windows = append(windows, w)
	}
	sort.Strings(windows)
	return windows, nil
}

func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.closed = true
	return nil
}

// dump writes the file through a temporary sibling so a crash never leaves
// half a document behind.
func (s *JSONStore) dump() error {
	data, err := json.Marshal(s.windows)
	if err != nil {
		return fmt.Errorf("failed to encode stacks: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	return os.Rename(tmp, s.path)
}
