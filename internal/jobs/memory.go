package jobs

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. Job history does not survive a restart,
// which is acceptable: the artifacts jobs produce are persisted elsewhere.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Create persists a new record and returns its assigned ID.
func (s *MemoryStore) Create(rec *Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if _, exists := s.records[rec.ID]; exists {
		return "", fmt.Errorf("job %s already exists", rec.ID)
	}

	stored := *rec
	s.records[rec.ID] = &stored
	return rec.ID, nil
}

// Get returns a copy of the record with the given ID.
func (s *MemoryStore) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("job %s not found", id)
	}
	out := *rec
	return &out, nil
}

// List returns copies of all records, newest first.
func (s *MemoryStore) List() ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		c := *rec
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update replaces the stored record with the same ID.
func (s *MemoryStore) Update(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.ID]; !ok {
		return fmt.Errorf("job %s not found", rec.ID)
	}
	stored := *rec
	s.records[rec.ID] = &stored
	return nil
}
