package storage

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/orderdesk/internal/model"
)

// MemoryFilterStore keeps saved filters for the lifetime of the process.
type MemoryFilterStore struct {
	mu      sync.Mutex
	filters []model.SavedFilter
	now     func() time.Time
}

// NewMemoryFilterStore creates an empty in-memory store.
func NewMemoryFilterStore() *MemoryFilterStore {
	return &MemoryFilterStore{now: time.Now}
}

// Save stores a snapshot of state under name.
func (m *MemoryFilterStore) Save(name string, state model.FilterState) (model.SavedFilter, error) {
	saved, err := newSavedFilter(name, state, m.now())
	if err != nil {
		return model.SavedFilter{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = append(m.filters, saved)
	return cloneSaved(saved), nil
}

// List returns every saved filter, oldest first.
func (m *MemoryFilterStore) List() ([]model.SavedFilter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.SavedFilter, len(m.filters))
	for i, f := range m.filters {
		out[i] = cloneSaved(f)
	}
	return out, nil
}

// Get returns the saved filter with id.
func (m *MemoryFilterStore) Get(id string) (model.SavedFilter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.filters {
		if f.ID == id {
			return cloneSaved(f), nil
		}
	}
	return model.SavedFilter{}, fmt.Errorf("%w: %s", model.ErrSavedFilterNotFound, id)
}

// Find resolves an id, or else the most recently saved filter named idOrName.
func (m *MemoryFilterStore) Find(idOrName string) (model.SavedFilter, error) {
	list, err := m.List()
	if err != nil {
		return model.SavedFilter{}, err
	}
	return findSaved(list, idOrName)
}

// Delete removes the saved filter with id.
func (m *MemoryFilterStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, f := range m.filters {
		if f.ID == id {
			m.filters = append(m.filters[:i], m.filters[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", model.ErrSavedFilterNotFound, id)
}

// newSavedFilter validates name and snapshots state under a fresh id.
func newSavedFilter(name string, state model.FilterState, now time.Time) (model.SavedFilter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.SavedFilter{}, model.ErrEmptyName
	}
	return model.SavedFilter{
		ID:        uuid.New().String(),
		Name:      name,
		State:     state.Clone(),
		CreatedAt: now.UTC(),
	}, nil
}

func cloneSaved(f model.SavedFilter) model.SavedFilter {
	f.State = f.State.Clone()
	return f
}

// findSaved prefers an exact id match, then the newest name match.
func findSaved(list []model.SavedFilter, idOrName string) (model.SavedFilter, error) {
	for _, f := range list {
		if f.ID == idOrName {
			return f, nil
		}
	}
	for i := len(list) - 1; i >= 0; i-- {
		if strings.EqualFold(list[i].Name, idOrName) {
			return list[i], nil
		}
	}
	return model.SavedFilter{}, fmt.Errorf("%w: %s", model.ErrSavedFilterNotFound, idOrName)
}
