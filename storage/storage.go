// Package storage provides the pluggable quad store adapter contract.
package storage

import (
	"context"

	"github.com/alien-mcl/RomanticWeb/rdf"
)

// Store is the quad store adapter: the minimum contract the entity layer
// needs from a concrete graph backend.
//
// Implementations must be safe for concurrent use. Iteration order of
// returned quads is unspecified; callers must not rely on it.
type Store interface {
	// LoadEntity returns every quad owned by the given entity, across all
	// named graphs (union read). Returned quads carry their originating
	// graph name, "" for the default graph. A missing entity is not an
	// error; it loads as an empty set.
	LoadEntity(ctx context.Context, id rdf.EntityID) ([]rdf.EntityQuad, error)

	// AssertEntity adds the given quads as one atomic batch. Asserting an
	// already-present quad is a no-op (set semantics).
	AssertEntity(ctx context.Context, quads []rdf.EntityQuad) error

	// RetractEntity removes the given quads as one atomic batch. Retracting
	// an absent quad is a no-op.
	RetractEntity(ctx context.Context, quads []rdf.EntityQuad) error

	// ApplyChanges applies retractions then assertions as one atomic batch,
	// leaving the store's content equal to (prior − retracted) ∪ asserted.
	// This is the commit path; adapters may retry transient write failures
	// a bounded number of times before surfacing the error.
	ApplyChanges(ctx context.Context, asserted, retracted []rdf.EntityQuad) error
}
