package server

import (
	"fmt"
	"sort"
	"sync"

	"github.com/TFMV/forcegraph/models"
)

// MemoryStore keeps layout results in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]*models.LayoutResult
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]*models.LayoutResult)}
}

// FindByID returns the result with the given id
func (m *MemoryStore) FindByID(id string) (*models.LayoutResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res, ok := m.results[id]
	if !ok {
		return nil, fmt.Errorf("layout %s: %w", id, models.ErrNotFound)
	}
	return res, nil
}

// List returns every stored result, oldest first
func (m *MemoryStore) List() []*models.LayoutResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.LayoutResult, 0, len(m.results))
	for _, res := range m.results {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Save stores a result under its id
func (m *MemoryStore) Save(result *models.LayoutResult) error {
	if result == nil || result.ID == "" {
		return fmt.Errorf("cannot store a layout without an id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[result.ID] = result
	return nil
}

// Delete removes a result
func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.results[id]; !ok {
		return fmt.Errorf("layout %s: %w", id, models.ErrNotFound)
	}
	delete(m.results, id)
	return nil
}
