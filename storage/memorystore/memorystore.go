// Package memorystore provides an in-memory quad store adapter.
//
// It is the reference Store implementation: a set of quads partitioned by
// named graph, guarded by a read-write mutex. Batches mutate under one lock
// acquisition, which gives the batch-atomicity guarantee for free. Intended
// for tests, examples, and as the in-memory half of the file-backed
// adapter.
package memorystore

import (
	"context"
	"sync"

	"github.com/alien-mcl/RomanticWeb/rdf"
)

// Store is an in-memory quad store. The zero value is not usable; create
// one with New. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	quads map[rdf.EntityQuad]struct{}
}

// New creates an empty in-memory quad store.
func New() *Store {
	return &Store{quads: make(map[rdf.EntityQuad]struct{})}
}

// NewWithQuads creates a store pre-populated with the given quads.
func NewWithQuads(quads []rdf.EntityQuad) *Store {
	s := New()
	for _, q := range quads {
		s.quads[q] = struct{}{}
	}
	return s
}

// LoadEntity returns every quad owned by the entity, across all named
// graphs.
func (s *Store) LoadEntity(ctx context.Context, id rdf.EntityID) ([]rdf.EntityQuad, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []rdf.EntityQuad
	for q := range s.quads {
		if q.Owner == id {
			result = append(result, q)
		}
	}
	return result, nil
}

// AssertEntity adds the quads as one atomic batch.
func (s *Store) AssertEntity(ctx context.Context, quads []rdf.EntityQuad) error {
	return s.ApplyChanges(ctx, quads, nil)
}

// RetractEntity removes the quads as one atomic batch.
func (s *Store) RetractEntity(ctx context.Context, quads []rdf.EntityQuad) error {
	return s.ApplyChanges(ctx, nil, quads)
}

// ApplyChanges applies retractions then assertions under one lock
// acquisition, so a concurrent read sees none or all of the batch.
func (s *Store) ApplyChanges(ctx context.Context, asserted, retracted []rdf.EntityQuad) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range retracted {
		delete(s.quads, q)
	}
	for _, q := range asserted {
		s.quads[q] = struct{}{}
	}
	return nil
}

// Size returns the number of quads currently held.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quads)
}

// Quads returns a snapshot of every quad in the store. Order is
// unspecified.
func (s *Store) Quads() []rdf.EntityQuad {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]rdf.EntityQuad, 0, len(s.quads))
	for q := range s.quads {
		out = append(out, q)
	}
	return out
}

// Contains reports whether the store holds the exact quad.
func (s *Store) Contains(q rdf.EntityQuad) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.quads[q]
	return ok
}
