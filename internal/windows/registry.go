package windows

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"memorize/internal/store"
)

// ErrUnknownWindow is returned for windows that were never added.
var ErrUnknownWindow = fmt.Errorf("unknown window")

// Registry maps window ids to their managers.
type Registry struct {
	store store.Store

	mu      sync.Mutex
	windows map[string]*Manager
}

func NewRegistry(st store.Store) *Registry {
	return &Registry{
		store:   st,
		windows: make(map[string]*Manager),
	}
}

// AddWindow creates the manager for id unless it already exists.
func (r *Registry) AddWindow(id string) (*Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.windows[id]; ok {
		return m, nil
	}
	m, err := NewManager(id, r.store)
	if err != nil {
		return nil, err
	}
	r.windows[id] = m
	log.Infof("window %s added", id)
	return m, nil
}

func (r *Registry) Find(id string) (*Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.windows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWindow, id)
	}
	return m, nil
}

// IDs returns the known window ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.windows))
	for id := range r.windows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Discard saves a window and forgets it.
func (r *Registry) Discard(id string) error {
	r.mu.Lock()
	m, ok := r.windows[id]
	delete(r.windows, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWindow, id)
	}
	return m.Save()
}

// SaveAll saves every window, collecting all failures.
func (r *Registry) SaveAll() error {
	r.mu.Lock()
	managers := make([]*Manager, 0, len(r.windows))
	for _, m := range r.windows {
		managers = append(managers, m)
	}
	r.mu.Unlock()

	var errs []error
	for _, m := range managers {
		if err := m.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close saves every window.
func (r *Registry) Close() error {
	return r.SaveAll()
}
