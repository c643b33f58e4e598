package entities

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alien-mcl/RomanticWeb/errors"
	"github.com/alien-mcl/RomanticWeb/metric"
	"github.com/alien-mcl/RomanticWeb/rdf"
	"github.com/alien-mcl/RomanticWeb/storage"
)

// trackedEntity is one entity's cache slot: the persisted quad view plus
// the staged changes not yet flushed to the adapter.
type trackedEntity struct {
	mu        sync.Mutex // held only in thread-safe mode
	loaded    bool
	persisted map[rdf.EntityQuad]struct{}
	asserted  map[rdf.EntityQuad]struct{}
	retracted map[rdf.EntityQuad]struct{}
}

func newTrackedEntity() *trackedEntity {
	return &trackedEntity{
		persisted: make(map[rdf.EntityQuad]struct{}),
		asserted:  make(map[rdf.EntityQuad]struct{}),
		retracted: make(map[rdf.EntityQuad]struct{}),
	}
}

// EntityStore is the change-tracking cache between entity proxies and the
// quad store adapter. It caches each entity's quads on first access, stages
// pending assertions and retractions per entity, and flushes all staged
// changes in one adapter batch on Commit.
//
// By default an EntityStore is intended for single-threaded (or externally
// synchronized) use. In thread-safe mode each entity's slot is guarded
// independently, so concurrent loads of different entities do not contend,
// while Commit calls are serialized against each other.
type EntityStore struct {
	adapter    storage.Store
	threadSafe bool
	metrics    *metric.Metrics

	mu       sync.Mutex // guards the tracked map itself
	commitMu sync.Mutex
	tracked  map[rdf.EntityID]*trackedEntity
}

// NewEntityStore creates an entity store over a quad store adapter.
func NewEntityStore(adapter storage.Store, threadSafe bool, metrics *metric.Metrics) (*EntityStore, error) {
	if adapter == nil {
		return nil, errors.Invalid("EntityStore", "NewEntityStore", "adapter cannot be nil")
	}
	return &EntityStore{
		adapter:    adapter,
		threadSafe: threadSafe,
		metrics:    metrics,
		tracked:    make(map[rdf.EntityID]*trackedEntity),
	}, nil
}

// slot returns the tracking slot for an entity, creating it on first use.
func (s *EntityStore) slot(id rdf.EntityID) *trackedEntity {
	s.mu.Lock()
	defer s.mu.Unlock()

	te, ok := s.tracked[id]
	if !ok {
		te = newTrackedEntity()
		s.tracked[id] = te
		if s.metrics != nil {
			s.metrics.RecordTrackedEntities(len(s.tracked))
		}
	}
	return te
}

// lock acquires the slot lock in thread-safe mode; otherwise a no-op.
func (s *EntityStore) lock(te *trackedEntity) func() {
	if !s.threadSafe {
		return func() {}
	}
	te.mu.Lock()
	return te.mu.Unlock
}

// LoadEntity fetches and caches all quads for the entity if not already
// cached. Idempotent; a second call on a loaded entity does not touch the
// adapter. Load failures are not retried and propagate immediately.
func (s *EntityStore) LoadEntity(ctx context.Context, id rdf.EntityID) error {
	te := s.slot(id)
	unlock := s.lock(te)
	defer unlock()

	return s.loadLocked(ctx, id, te)
}

func (s *EntityStore) loadLocked(ctx context.Context, id rdf.EntityID, te *trackedEntity) error {
	if te.loaded {
		return nil
	}

	start := time.Now()
	quads, err := s.adapter.LoadEntity(ctx, id)
	if err != nil {
		return errors.WrapTransient(fmt.Errorf("%w: %w", errors.ErrStoreUnavailable, err),
			"EntityStore", "LoadEntity", fmt.Sprintf("fetch quads for %s", id))
	}

	for _, q := range quads {
		te.persisted[q] = struct{}{}
	}
	te.loaded = true

	if s.metrics != nil {
		s.metrics.RecordLoad(time.Since(start))
	}
	return nil
}

// IsLoaded reports whether the entity's quads are cached.
func (s *EntityStore) IsLoaded(id rdf.EntityID) bool {
	te := s.slot(id)
	unlock := s.lock(te)
	defer unlock()
	return te.loaded
}

// Invalidate drops the entity's cached quad view so the next access
// reloads from the adapter. Staged changes survive invalidation.
func (s *EntityStore) Invalidate(id rdf.EntityID) {
	te := s.slot(id)
	unlock := s.lock(te)
	defer unlock()

	te.loaded = false
	te.persisted = make(map[rdf.EntityQuad]struct{})
}

// QuadsMatching returns the object nodes of every effective quad matching
// (subject, predicate) for the entity, loading its quads on first access.
// The effective view merges staged changes: (persisted − retracted) ∪
// asserted, so uncommitted writes are visible to reads. The filter decides
// which named graphs are observed.
func (s *EntityStore) QuadsMatching(ctx context.Context, id rdf.EntityID, subject rdf.Node, predicateIRI string, filter GraphFilter) ([]rdf.Node, error) {
	quads, err := s.EffectiveQuads(ctx, id)
	if err != nil {
		return nil, err
	}

	var objects []rdf.Node
	for _, q := range quads {
		if q.Subject != subject || q.Predicate.Value() != predicateIRI {
			continue
		}
		if !filter.Matches(q.Graph) {
			continue
		}
		objects = append(objects, q.Object)
	}
	return objects, nil
}

// EffectiveQuads returns the entity's merged quad view, loading on first
// access.
func (s *EntityStore) EffectiveQuads(ctx context.Context, id rdf.EntityID) ([]rdf.EntityQuad, error) {
	te := s.slot(id)
	unlock := s.lock(te)
	defer unlock()

	if err := s.loadLocked(ctx, id, te); err != nil {
		return nil, err
	}

	quads := make([]rdf.EntityQuad, 0, len(te.persisted)+len(te.asserted))
	for q := range te.persisted {
		if _, gone := te.retracted[q]; gone {
			continue
		}
		quads = append(quads, q)
	}
	for q := range te.asserted {
		if _, dup := te.persisted[q]; dup {
			continue
		}
		quads = append(quads, q)
	}
	return quads, nil
}

// AssertEntity stages quads as pending assertions for the entity. Staged
// assertions merge by set union; re-asserting an already-staged quad is a
// no-op. Asserting a quad staged for retraction cancels the retraction.
func (s *EntityStore) AssertEntity(id rdf.EntityID, quads ...rdf.EntityQuad) {
	te := s.slot(id)
	unlock := s.lock(te)
	defer unlock()

	for _, q := range quads {
		delete(te.retracted, q)
		te.asserted[q] = struct{}{}
	}
	s.recordStaged()
}

// RetractEntity stages quads as pending retractions. Retracting a quad that
// was only staged for assertion (never persisted) cancels the assertion and
// stages nothing: the net change is a no-op. Retracting a persisted quad
// stages a real retraction, as does retracting any quad of an entity that
// was never loaded (it may be persisted).
func (s *EntityStore) RetractEntity(id rdf.EntityID, quads ...rdf.EntityQuad) {
	te := s.slot(id)
	unlock := s.lock(te)
	defer unlock()

	for _, q := range quads {
		_, wasStaged := te.asserted[q]
		delete(te.asserted, q)

		_, isPersisted := te.persisted[q]
		if isPersisted || (!wasStaged && !te.loaded) {
			te.retracted[q] = struct{}{}
		}
	}
	s.recordStaged()
}

// StagedChanges returns snapshots of the entity's pending assertions and
// retractions. Order is unspecified.
func (s *EntityStore) StagedChanges(id rdf.EntityID) (asserted, retracted []rdf.EntityQuad) {
	te := s.slot(id)
	unlock := s.lock(te)
	defer unlock()

	for q := range te.asserted {
		asserted = append(asserted, q)
	}
	for q := range te.retracted {
		retracted = append(retracted, q)
	}
	return asserted, retracted
}

// HasChanges reports whether any entity has staged changes.
func (s *EntityStore) HasChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, te := range s.tracked {
		if len(te.asserted) > 0 || len(te.retracted) > 0 {
			return true
		}
	}
	return false
}

// Commit flushes all staged assertions and retractions for all tracked
// entities to the adapter in one logical operation. On success staged state
// is cleared and the cached views are updated in place. On failure staged
// state is preserved intact for retry and the error is surfaced; nothing
// is silently lost. Commit calls are serialized against each other.
func (s *EntityStore) Commit(ctx context.Context) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	slots := s.slotSnapshot()

	// Take every slot lock for the duration of the flush so no interleaved
	// mutation can observe or produce a half-staged set.
	for _, te := range slots {
		unlock := s.lock(te)
		defer unlock()
	}

	var asserted, retracted []rdf.EntityQuad
	for _, te := range slots {
		for q := range te.asserted {
			asserted = append(asserted, q)
		}
		for q := range te.retracted {
			retracted = append(retracted, q)
		}
	}
	if len(asserted) == 0 && len(retracted) == 0 {
		return nil
	}

	start := time.Now()
	if err := s.adapter.ApplyChanges(ctx, asserted, retracted); err != nil {
		if s.metrics != nil {
			s.metrics.RecordCommit("failure", time.Since(start))
		}
		return errors.WrapTransient(fmt.Errorf("%w: %w", errors.ErrStoreUnavailable, err),
			"EntityStore", "Commit", "flush staged quads")
	}

	for _, te := range slots {
		for q := range te.retracted {
			delete(te.persisted, q)
		}
		if te.loaded {
			for q := range te.asserted {
				te.persisted[q] = struct{}{}
			}
		}
		te.asserted = make(map[rdf.EntityQuad]struct{})
		te.retracted = make(map[rdf.EntityQuad]struct{})
	}

	if s.metrics != nil {
		s.metrics.RecordCommit("success", time.Since(start))
	}
	s.recordStaged()
	return nil
}

// Rollback discards all staged changes for all tracked entities without
// touching the adapter. Cached views are untouched.
func (s *EntityStore) Rollback() {
	for _, te := range s.slotSnapshot() {
		unlock := s.lock(te)
		te.asserted = make(map[rdf.EntityQuad]struct{})
		te.retracted = make(map[rdf.EntityQuad]struct{})
		unlock()
	}
	s.recordStaged()
}

// Detach stops tracking an entity, dropping its cache and staged changes.
func (s *EntityStore) Detach(id rdf.EntityID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tracked, id)
	if s.metrics != nil {
		s.metrics.RecordTrackedEntities(len(s.tracked))
	}
}

func (s *EntityStore) slotSnapshot() []*trackedEntity {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make([]*trackedEntity, 0, len(s.tracked))
	for _, te := range s.tracked {
		slots = append(slots, te)
	}
	return slots
}

func (s *EntityStore) recordStaged() {
	if s.metrics == nil {
		return
	}

	s.mu.Lock()
	total := 0
	for _, te := range s.tracked {
		total += len(te.asserted) + len(te.retracted)
	}
	s.mu.Unlock()
	s.metrics.RecordStagedQuads(total)
}
