package memorystore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alien-mcl/RomanticWeb/rdf"
)

func quad(owner, predicate, object string) rdf.EntityQuad {
	id := rdf.NewEntityID(owner)
	return rdf.NewEntityQuad(id, id.Node(), rdf.NewIRI(predicate), rdf.NewLiteral(object))
}

func TestAssertAndLoad(t *testing.T) {
	ctx := context.Background()
	store := New()

	alice := rdf.NewEntityID("http://example.org/alice")
	q1 := quad("http://example.org/alice", rdf.FoafName, "Alice")
	q2 := quad("http://example.org/alice", rdf.FoafNick, "ally")
	other := quad("http://example.org/bob", rdf.FoafName, "Bob")

	require.NoError(t, store.AssertEntity(ctx, []rdf.EntityQuad{q1, q2, other}))

	loaded, err := store.LoadEntity(ctx, alice)
	require.NoError(t, err)
	assert.ElementsMatch(t, []rdf.EntityQuad{q1, q2}, loaded)

	// Re-asserting is a no-op (set semantics).
	require.NoError(t, store.AssertEntity(ctx, []rdf.EntityQuad{q1}))
	assert.Equal(t, 3, store.Size())
}

func TestLoadMissingEntity(t *testing.T) {
	ctx := context.Background()
	store := New()

	loaded, err := store.LoadEntity(ctx, rdf.NewEntityID("http://example.org/nobody"))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRetract(t *testing.T) {
	ctx := context.Background()
	q1 := quad("http://example.org/alice", rdf.FoafName, "Alice")
	q2 := quad("http://example.org/alice", rdf.FoafNick, "ally")
	store := NewWithQuads([]rdf.EntityQuad{q1, q2})

	require.NoError(t, store.RetractEntity(ctx, []rdf.EntityQuad{q1}))
	assert.False(t, store.Contains(q1))
	assert.True(t, store.Contains(q2))

	// Retracting an absent quad is a no-op.
	require.NoError(t, store.RetractEntity(ctx, []rdf.EntityQuad{q1}))
	assert.Equal(t, 1, store.Size())
}

func TestApplyChanges(t *testing.T) {
	ctx := context.Background()
	q1 := quad("http://example.org/alice", rdf.FoafName, "Alice")
	q2 := quad("http://example.org/alice", rdf.FoafName, "Alicia")
	store := NewWithQuads([]rdf.EntityQuad{q1})

	// (prior − retracted) ∪ asserted
	require.NoError(t, store.ApplyChanges(ctx, []rdf.EntityQuad{q2}, []rdf.EntityQuad{q1}))
	assert.False(t, store.Contains(q1))
	assert.True(t, store.Contains(q2))
	assert.Equal(t, 1, store.Size())
}

func TestApplyChangesRetractsBeforeAsserts(t *testing.T) {
	ctx := context.Background()
	q := quad("http://example.org/alice", rdf.FoafName, "Alice")
	store := NewWithQuads([]rdf.EntityQuad{q})

	// A quad in both sets ends asserted.
	require.NoError(t, store.ApplyChanges(ctx, []rdf.EntityQuad{q}, []rdf.EntityQuad{q}))
	assert.True(t, store.Contains(q))
}

func TestNamedGraphsAreDistinct(t *testing.T) {
	ctx := context.Background()
	store := New()

	alice := rdf.NewEntityID("http://example.org/alice")
	base := rdf.NewEntityQuad(alice, alice.Node(), rdf.NewIRI(rdf.FoafKnows),
		rdf.NewIRI("http://example.org/bob"))
	g1 := base.InGraph("http://example.org/g1")
	g2 := base.InGraph("http://example.org/g2")

	require.NoError(t, store.AssertEntity(ctx, []rdf.EntityQuad{g1, g2}))
	assert.Equal(t, 2, store.Size())

	// Union read returns both, each carrying its graph.
	loaded, err := store.LoadEntity(ctx, alice)
	require.NoError(t, err)
	assert.ElementsMatch(t, []rdf.EntityQuad{g1, g2}, loaded)

	// Retracting from one graph leaves the other.
	require.NoError(t, store.RetractEntity(ctx, []rdf.EntityQuad{g1}))
	assert.False(t, store.Contains(g1))
	assert.True(t, store.Contains(g2))
}

func TestContextCancellation(t *testing.T) {
	store := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.LoadEntity(ctx, rdf.NewEntityID("http://example.org/alice"))
	assert.Error(t, err)
	assert.Error(t, store.AssertEntity(ctx, nil))
}
