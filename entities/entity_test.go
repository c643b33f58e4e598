package entities

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alien-mcl/RomanticWeb/errors"
	"github.com/alien-mcl/RomanticWeb/mapping"
	"github.com/alien-mcl/RomanticWeb/ontologies"
	"github.com/alien-mcl/RomanticWeb/rdf"
	"github.com/alien-mcl/RomanticWeb/storage"
	"github.com/alien-mcl/RomanticWeb/storage/memorystore"
)

const (
	dummyNamespace = "http://example.org/dummy#"
	exAge          = "http://example.org/terms/age"
	exInterests    = "http://example.org/terms/interests"
	exSettings     = "http://example.org/terms/settings"
	exKey          = "http://example.org/terms/key"
	exValue        = "http://example.org/terms/value"
)

var (
	aliceID = rdf.NewEntityID("http://example.org/alice")
	bobID   = rdf.NewEntityID("http://example.org/bob")
	carolID = rdf.NewEntityID("http://example.org/carol")
)

func testProvider(t *testing.T) *ontologies.Provider {
	t.Helper()
	p, err := ontologies.NewProvider(
		ontologies.WithOntology("foaf", rdf.FoafNamespace,
			ontologies.WithTerms("name", "nick", "knows", "Person")),
		ontologies.WithOntology("dummy", dummyNamespace,
			ontologies.WithTerms("nick")),
	)
	require.NoError(t, err)
	return p
}

func testMappings(t *testing.T) mapping.Repository {
	t.Helper()
	repo, err := mapping.NewRepository(
		mapping.WithEntity("Person",
			mapping.WithClass(rdf.FoafPerson),
			mapping.WithProperty("Name", rdf.FoafName, mapping.WithConverter(ConverterString)),
			mapping.WithProperty("Age", exAge, mapping.WithConverter(ConverterInteger)),
			mapping.WithProperty("Knows", rdf.FoafKnows,
				mapping.AsCollection(), mapping.AsEntity("Person"), mapping.FromUnionGraph()),
			mapping.WithProperty("Interests", exInterests,
				mapping.AsList(), mapping.WithConverter(ConverterString)),
			mapping.WithProperty("Settings", exSettings,
				mapping.AsDictionary(exKey, exValue)),
		),
	)
	require.NoError(t, err)
	return repo
}

func newTestContext(t *testing.T, adapter storage.Store, opts ...Option) *Context {
	t.Helper()
	base := []Option{
		WithOntologies(testProvider(t)),
		WithMappings(testMappings(t)),
	}
	ec, err := NewContext(adapter, append(base, opts...)...)
	require.NoError(t, err)
	return ec
}

func TestEntityIdentity(t *testing.T) {
	ec := newTestContext(t, memorystore.New())

	a1, err := ec.Create(aliceID)
	require.NoError(t, err)
	a2, err := ec.Create(aliceID)
	require.NoError(t, err)
	typed, err := ec.CreateTyped(aliceID, "Person")
	require.NoError(t, err)
	b, err := ec.Create(bobID)
	require.NoError(t, err)

	assert.True(t, a1.Equal(a2))
	assert.True(t, a1.Equal(typed), "typed and untyped views of one id are the same entity")
	assert.False(t, a1.Equal(b))
	assert.Equal(t, aliceID, a1.ID())
}

func TestEntityIdentityAcrossContexts(t *testing.T) {
	ec1 := newTestContext(t, memorystore.New())
	ec2 := newTestContext(t, memorystore.New())

	a1, err := ec1.Create(aliceID)
	require.NoError(t, err)
	a2, err := ec2.Create(aliceID)
	require.NoError(t, err)
	b, err := ec2.Create(bobID)
	require.NoError(t, err)

	assert.True(t, a1.Equal(a2), "same id across contexts must compare equal")
	assert.False(t, a1.Equal(b))
	assert.False(t, a1.Equal(nil))
}

func TestCreateValidation(t *testing.T) {
	ec := newTestContext(t, memorystore.New())

	_, err := ec.Create(rdf.EntityID{})
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, err = ec.CreateTyped(aliceID, "Unregistered")
	assert.ErrorIs(t, err, errors.ErrMappingNotFound)
}

func TestResolvePrecedence(t *testing.T) {
	ec := newTestContext(t, memorystore.New())
	typed, err := ec.CreateTyped(aliceID, "Person")
	require.NoError(t, err)
	untyped, err := ec.Create(bobID)
	require.NoError(t, err)

	res, err := typed.Resolve("Name")
	require.NoError(t, err)
	assert.Equal(t, ResolutionMapped, res.Kind)
	assert.Equal(t, rdf.FoafName, res.Property.Predicate)

	res, err = typed.Resolve("foaf")
	require.NoError(t, err)
	assert.Equal(t, ResolutionOntology, res.Kind)
	assert.Equal(t, "foaf", res.Prefix)

	res, err = untyped.Resolve("name")
	require.NoError(t, err)
	assert.Equal(t, ResolutionTerm, res.Kind)
	assert.Equal(t, rdf.FoafName, res.Property.Predicate)

	_, err = untyped.Resolve("bogus")
	assert.ErrorIs(t, err, errors.ErrNoSuchMember)
}

func TestResolveAmbiguousTerm(t *testing.T) {
	ec := newTestContext(t, memorystore.New())
	e, err := ec.Create(aliceID)
	require.NoError(t, err)

	_, err = e.Resolve("nick")
	require.ErrorIs(t, err, errors.ErrAmbiguousProperty)
	assert.Contains(t, err.Error(), "dummy:nick")
	assert.Contains(t, err.Error(), "foaf:nick")
}

func TestDynamicGetSet(t *testing.T) {
	ctx := context.Background()
	adapter := memorystore.New()
	ec := newTestContext(t, adapter)

	e, err := ec.Create(aliceID)
	require.NoError(t, err)

	v, err := e.Get(ctx, "name")
	require.NoError(t, err)
	assert.Nil(t, v, "absent property reads as nil")

	require.NoError(t, e.Set(ctx, "name", "Alice"))

	v, err = e.Get(ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", v, "uncommitted writes are visible to reads")
	assert.Equal(t, 0, adapter.Size(), "nothing reaches the adapter before commit")

	require.NoError(t, ec.Commit(ctx))
	assert.True(t, adapter.Contains(rdf.NewEntityQuad(
		aliceID, aliceID.Node(), rdf.NewIRI(rdf.FoafName), rdf.NewLiteral("Alice"))))
}

func TestSetReplacesExistingValues(t *testing.T) {
	ctx := context.Background()
	old := rdf.NewEntityQuad(aliceID, aliceID.Node(), rdf.NewIRI(exAge),
		rdf.NewTypedLiteral("30", rdf.XsdInteger))
	adapter := memorystore.NewWithQuads([]rdf.EntityQuad{old})
	ec := newTestContext(t, adapter)

	e, err := ec.CreateTyped(aliceID, "Person")
	require.NoError(t, err)

	v, err := e.Get(ctx, "Age")
	require.NoError(t, err)
	assert.Equal(t, int64(30), v)

	require.NoError(t, e.Set(ctx, "Age", int64(31)))

	v, err = e.Get(ctx, "Age")
	require.NoError(t, err)
	assert.Equal(t, int64(31), v)

	require.NoError(t, ec.Commit(ctx))
	assert.False(t, adapter.Contains(old), "overwrite retracts the previous value")
	assert.True(t, adapter.Contains(rdf.NewEntityQuad(aliceID, aliceID.Node(), rdf.NewIRI(exAge),
		rdf.NewTypedLiteral("31", rdf.XsdInteger))))
}

func TestUnionGraphRead(t *testing.T) {
	ctx := context.Background()
	adapter := memorystore.NewWithQuads([]rdf.EntityQuad{
		rdf.NewGraphQuad(aliceID, aliceID.Node(), rdf.NewIRI(rdf.FoafKnows), bobID.Node(),
			"http://example.org/graphs/work"),
		rdf.NewGraphQuad(aliceID, aliceID.Node(), rdf.NewIRI(rdf.FoafKnows), carolID.Node(),
			"http://example.org/graphs/private"),
	})
	ec := newTestContext(t, adapter)

	e, err := ec.CreateTyped(aliceID, "Person")
	require.NoError(t, err)

	known, err := e.GetAll(ctx, "Knows")
	require.NoError(t, err)
	require.Len(t, known, 2, "union read spans both named graphs")

	ids := make(map[rdf.EntityID]struct{})
	for _, k := range known {
		nested, ok := k.(*Entity)
		require.True(t, ok)
		ids[nested.ID()] = struct{}{}
	}
	assert.Contains(t, ids, bobID)
	assert.Contains(t, ids, carolID)
}

func TestOntologyAccessor(t *testing.T) {
	ctx := context.Background()
	ec := newTestContext(t, memorystore.New())
	e, err := ec.Create(aliceID)
	require.NoError(t, err)

	_, err = e.Ontology("nope")
	assert.ErrorIs(t, err, errors.ErrUnknownOntology)

	acc, err := e.Ontology("foaf")
	require.NoError(t, err)

	require.NoError(t, acc.Set(ctx, "name", "Alice"))
	v, err := acc.Get(ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", v)

	// Scoped access resolves open-world; no ambiguity even though "nick" is
	// declared in two vocabularies.
	require.NoError(t, acc.Set(ctx, "nick", "allie"))
	v, err = acc.Get(ctx, "nick")
	require.NoError(t, err)
	assert.Equal(t, "allie", v)

	_, err = e.Get(ctx, "foaf")
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestIsAAndTypes(t *testing.T) {
	ctx := context.Background()
	adapter := memorystore.NewWithQuads([]rdf.EntityQuad{
		rdf.NewEntityQuad(aliceID, aliceID.Node(), rdf.NewIRI(rdf.RdfType), rdf.NewIRI(rdf.FoafPerson)),
	})
	ec := newTestContext(t, adapter)

	e, err := ec.Create(aliceID)
	require.NoError(t, err)

	is, err := e.IsA(ctx, "foaf", "Person")
	require.NoError(t, err)
	assert.True(t, is)

	is, err = e.IsA(ctx, "foaf", "Agent")
	require.NoError(t, err)
	assert.False(t, is, "an unasserted class is false, not an error")

	_, err = e.IsA(ctx, "nope", "Person")
	assert.ErrorIs(t, err, errors.ErrUnknownOntology)

	types, err := e.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{rdf.FoafPerson}, types)
}

func TestBlankNodeScoping(t *testing.T) {
	ctx := context.Background()
	adapter := memorystore.NewWithQuads([]rdf.EntityQuad{
		rdf.NewEntityQuad(aliceID, aliceID.Node(), rdf.NewIRI(rdf.FoafKnows),
			rdf.NewBlank("b1", aliceID, "")),
		rdf.NewEntityQuad(bobID, bobID.Node(), rdf.NewIRI(rdf.FoafKnows),
			rdf.NewBlank("b1", bobID, "")),
	})
	ec := newTestContext(t, adapter)

	alice, err := ec.Create(aliceID)
	require.NoError(t, err)
	bob, err := ec.Create(bobID)
	require.NoError(t, err)

	av, err := alice.Get(ctx, "knows")
	require.NoError(t, err)
	bv, err := bob.Get(ctx, "knows")
	require.NoError(t, err)

	aNested := av.(*Entity)
	bNested := bv.(*Entity)
	assert.False(t, aNested.Equal(bNested),
		"identical blank identifiers under different owners are distinct entities")
	assert.NotEqual(t, aNested.ID(), bNested.ID())
}

func TestDictionaryRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := memorystore.New()
	ec := newTestContext(t, adapter)

	e, err := ec.CreateTyped(aliceID, "Person")
	require.NoError(t, err)

	require.NoError(t, e.Set(ctx, "Settings", map[any]any{
		"theme": "dark",
		"limit": int64(10),
	}))

	v, err := e.Get(ctx, "Settings")
	require.NoError(t, err)
	settings := v.(map[any]any)
	assert.Equal(t, "dark", settings["theme"])
	assert.Equal(t, int64(10), settings["limit"])

	require.NoError(t, ec.Commit(ctx))

	links, keys, values := 0, 0, 0
	for _, q := range adapter.Quads() {
		switch q.Predicate.Value() {
		case exSettings:
			links++
			assert.True(t, q.Object.IsBlank(), "each entry hangs off a blank node")
		case exKey:
			keys++
		case exValue:
			values++
		}
	}
	assert.Equal(t, 2, links)
	assert.Equal(t, 2, keys)
	assert.Equal(t, 2, values)

	// Overwrite drops the old entry nodes entirely.
	require.NoError(t, e.Set(ctx, "Settings", map[any]any{"theme": "light"}))
	require.NoError(t, ec.Commit(ctx))

	v, err = e.Get(ctx, "Settings")
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"theme": "light"}, v)
	assert.Equal(t, 3, adapter.Size(), "old entry nodes and links are retracted")
}

func TestNamedGraphPropagation(t *testing.T) {
	ctx := context.Background()
	graph := "http://example.org/graphs/work"

	repo, err := mapping.NewRepository(
		mapping.WithEntity("Person",
			mapping.WithProperty("Colleague", rdf.FoafKnows,
				mapping.AsEntity("Person"), mapping.InGraph(graph)),
			mapping.WithProperty("Name", rdf.FoafName,
				mapping.WithConverter(ConverterString)),
		),
	)
	require.NoError(t, err)

	adapter := memorystore.NewWithQuads([]rdf.EntityQuad{
		rdf.NewGraphQuad(aliceID, aliceID.Node(), rdf.NewIRI(rdf.FoafKnows), bobID.Node(), graph),
		rdf.NewGraphQuad(bobID, bobID.Node(), rdf.NewIRI(rdf.FoafName), rdf.NewLiteral("Bob"), graph),
		// A default-graph name the named-graph read must not see.
		rdf.NewEntityQuad(bobID, bobID.Node(), rdf.NewIRI(rdf.FoafName), rdf.NewLiteral("Robert")),
	})

	ec, err := NewContext(adapter, WithOntologies(testProvider(t)), WithMappings(repo))
	require.NoError(t, err)

	alice, err := ec.CreateTyped(aliceID, "Person")
	require.NoError(t, err)

	v, err := alice.Get(ctx, "Colleague")
	require.NoError(t, err)
	bob := v.(*Entity)

	name, err := bob.Get(ctx, "Name")
	require.NoError(t, err)
	assert.Equal(t, "Bob", name, "nested access stays in the graph that held the link")

	direct, err := ec.CreateTyped(bobID, "Person")
	require.NoError(t, err)
	name, err = direct.Get(ctx, "Name")
	require.NoError(t, err)
	assert.Equal(t, "Robert", name, "a directly created proxy reads the default graph")
}
