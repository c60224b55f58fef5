package trace

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory record store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]storedRecord // evalID -> record
	nextSeq int
	closed  bool
}

// storedRecord holds a record with an insertion sequence for Recent().
type storedRecord struct {
	rec Record
	seq int
}

// NewMemoryStore creates a new in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]storedRecord),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.nextSeq++
	m.records[rec.EvalID] = storedRecord{rec: rec, seq: m.nextSeq}
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(evalID string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Record{}, ErrStoreClosed
	}

	stored, ok := m.records[evalID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return stored.rec, nil
}

// Recent implements Store.
func (m *MemoryStore) Recent(limit int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	if limit <= 0 {
		return nil, nil
	}

	stored := make([]storedRecord, 0, len(m.records))
	for _, s := range m.records {
		stored = append(stored, s)
	}

	// Most recently saved first
	sort.Slice(stored, func(i, j int) bool {
		return stored[i].seq > stored[j].seq
	})

	if len(stored) > limit {
		stored = stored[:limit]
	}

	recs := make([]Record, len(stored))
	for i, s := range stored {
		recs[i] = s.rec
	}
	return recs, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(evalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.records, evalID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.records = nil
	return nil
}

// Len returns the number of stored records. Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
