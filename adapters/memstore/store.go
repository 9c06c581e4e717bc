// Package memstore is an in-memory vector store for tests, examples
// and small one-off corpora. Everything is lost on process exit.
package memstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/visualdoc/ragservice/vectorstore"
)

type entry struct {
	record vectorstore.Record
	vector []float32
}

type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Init resets the store when forceRecreate is set and is otherwise a
// no-op.
func (s *Store) Init(_ context.Context, forceRecreate bool) error {
	if forceRecreate {
		s.mu.Lock()
		s.entries = make(map[string]entry)
		s.mu.Unlock()
	}
	return nil
}

// Upsert stores records, replacing entries that share an id.
func (s *Store) Upsert(_ context.Context, records []vectorstore.Record, vectors [][]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range records {
		vector := make([]float32, len(vectors[i]))
		copy(vector, vectors[i])
		s.entries[rec.ID] = entry{record: rec, vector: vector}
	}
	return nil
}

// Search scans all entries and returns the nearest by cosine distance,
// closest first.
func (s *Store) Search(_ context.Context, vector []float32, limit int) ([]vectorstore.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]vectorstore.Match, 0, len(s.entries))
	for _, e := range s.entries {
		matches = append(matches, vectorstore.Match{
			Record:   e.record,
			Distance: cosineDistance(vector, e.vector),
		})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Delete removes entries by id.
func (s *Store) Delete(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.entries, id)
	}
	return nil
}

// Count reports the number of stored entries.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

var _ vectorstore.Store = (*Store)(nil)

func cosineDistance(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
