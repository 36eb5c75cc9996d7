package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps records in append order for tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// ListRecent returns the most recent records, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.records) - limit
	if start < 0 {
		start = 0
	}

	recent := make([]Record, 0, len(s.records)-start)
	for i := len(s.records) - 1; i >= start; i-- {
		recent = append(recent, s.records[i])
	}
	return recent, nil
}

// All returns every record in append order. Test helper.
func (s *InMemoryStore) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record{}, s.records...)
}
