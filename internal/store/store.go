// Package store collects finished extraction records for export.
package store

import (
	"sync"

	"github.com/freightops/invoice-audit/internal/entity"
)

// ResultStore accumulates records. Adding a record whose
// (invoiceNumber, sourceFilename) pair is already present is a no-op.
type ResultStore interface {
	// Add stores the record, reporting false when deduplicated away.
	Add(rec entity.ExtractedRecord) bool
	// AddAll stores each record, returning how many were actually added.
	AddAll(recs []entity.ExtractedRecord) int
	// List returns the stored records in insertion order.
	List() []entity.ExtractedRecord
	Clear()
	Len() int
}

// MemoryStore is the in-memory ResultStore used by the CLI session.
type MemoryStore struct {
	mu   sync.Mutex
	keys map[string]struct{}
	recs []entity.ExtractedRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string]struct{})}
}

func (s *MemoryStore) Add(rec entity.ExtractedRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rec.DedupKey()
	if _, dup := s.keys[key]; dup {
		return false
	}
	s.keys[key] = struct{}{}
	s.recs = append(s.recs, rec)
	return true
}

func (s *MemoryStore) AddAll(recs []entity.ExtractedRecord) int {
	added := 0
	for _, r := range recs {
		if s.Add(r) {
			added++
		}
	}
	return added
}

func (s *MemoryStore) List() []entity.ExtractedRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.ExtractedRecord, len(s.recs))
	copy(out, s.recs)
	return out
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[string]struct{})
	s.recs = nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}
