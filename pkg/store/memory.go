package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a minimal in-memory Store intended for tests and for
// report-configuration sessions that never touch disk.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[Ref]Record
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[Ref]Record{}}
}

// Save stores the record under ref, replacing any previous one.
func (s *MemoryStore) Save(_ context.Context, ref Ref, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}
	if s.records == nil {
		s.records = map[Ref]Record{}
	}
	s.records[ref] = record
	return nil
}

// Load returns the record for ref and whether one exists.
func (s *MemoryStore) Load(_ context.Context, ref Ref) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[ref]
	return record, ok, nil
}

// Delete removes the record for ref; missing refs are a no-op.
func (s *MemoryStore) Delete(_ context.Context, ref Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, ref)
	return nil
}

// List returns the refs of every stored record.
func (s *MemoryStore) List(_ context.Context) ([]Ref, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := make([]Ref, 0, len(s.records))
	for ref := range s.records {
		refs = append(refs, ref)
	}
	return refs, nil
}
