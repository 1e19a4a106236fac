package storage

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/wbrown/janus-minicon/datalog/preference"
)

// MemoryStore implements preference.Store in memory. It backs preference
// files loaded without a database.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[string]map[string]float64
}

var _ preference.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[string]map[string]float64)}
}

// PutTable stores a copy of t
func (s *MemoryStore) PutTable(t *preference.Table) error {
	if err := checkSetID(t.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[t.ID] = t.Map()
	return nil
}

// Table returns a copy of the stored set
func (s *MemoryStore) Table(id string) (*preference.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ranks, ok := s.sets[id]
	if !ok {
		return nil, errors.Wrapf(preference.ErrNoPreferenceSet, "%s", id)
	}
	return preference.FromMap(id, ranks), nil
}

// Sets lists the set ids in sorted order
func (s *MemoryStore) Sets() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sets))
	for id := range s.sets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteSet removes a set
func (s *MemoryStore) DeleteSet(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, id)
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error { return nil }
