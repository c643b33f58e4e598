package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alien-mcl/RomanticWeb/rdf"
)

func newPersonRepository(t *testing.T) *StaticRepository {
	t.Helper()

	repo, err := NewRepository(
		WithEntity("Person",
			WithClass(rdf.FoafPerson),
			WithProperty("name", rdf.FoafName),
			WithProperty("nick", rdf.FoafNick, AsCollection()),
			WithProperty("knows", rdf.FoafKnows, AsEntity("Person"), AsCollection(), FromUnionGraph()),
			WithProperty("interests", "http://example.org/interests", AsList()),
			WithProperty("settings", "http://example.org/settings",
				AsDictionary("http://example.org/key", "http://example.org/value")),
		),
		WithEntity("Document",
			WithProperty("title", rdf.RdfsLabel, InGraph("http://example.org/meta")),
		),
	)
	require.NoError(t, err)
	return repo
}

func TestRepositoryLookup(t *testing.T) {
	repo := newPersonRepository(t)

	person, ok := repo.MappingFor("Person")
	require.True(t, ok)
	assert.Equal(t, "Person", person.Name)
	assert.Equal(t, []string{rdf.FoafPerson}, person.Classes)

	_, ok = repo.MappingFor("Unmapped")
	assert.False(t, ok)

	assert.Equal(t, []string{"Document", "Person"}, repo.TypeNames())
}

func TestPropertyMappings(t *testing.T) {
	repo := newPersonRepository(t)
	person, ok := repo.MappingFor("Person")
	require.True(t, ok)

	tests := []struct {
		name     string
		property string
		check    func(t *testing.T, p Property)
	}{
		{
			name:     "scalar single",
			property: "name",
			check: func(t *testing.T, p Property) {
				assert.Equal(t, rdf.FoafName, p.Predicate)
				assert.Equal(t, StorageSingle, p.Storage)
				assert.False(t, p.IsEntity)
				assert.Equal(t, GraphDefault, p.Graph.Selection)
			},
		},
		{
			name:     "scalar collection",
			property: "nick",
			check: func(t *testing.T, p Property) {
				assert.Equal(t, StorageMulti, p.Storage)
			},
		},
		{
			name:     "entity collection with union graph",
			property: "knows",
			check: func(t *testing.T, p Property) {
				assert.True(t, p.IsEntity)
				assert.Equal(t, "Person", p.EntityType)
				assert.Equal(t, GraphUnion, p.Graph.Selection)
			},
		},
		{
			name:     "list",
			property: "interests",
			check: func(t *testing.T, p Property) {
				assert.Equal(t, StorageList, p.Storage)
			},
		},
		{
			name:     "dictionary",
			property: "settings",
			check: func(t *testing.T, p Property) {
				assert.True(t, p.IsDictionary)
				assert.Equal(t, "http://example.org/key", p.KeyPredicate)
				assert.Equal(t, "http://example.org/value", p.ValuePredicate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, ok := person.Property(tt.property)
			require.True(t, ok)
			tt.check(t, prop)
		})
	}

	_, ok = person.Property("unmapped")
	assert.False(t, ok)
}

func TestPropertyForPredicate(t *testing.T) {
	repo := newPersonRepository(t)
	person, _ := repo.MappingFor("Person")

	prop, ok := person.PropertyForPredicate(rdf.FoafKnows)
	require.True(t, ok)
	assert.Equal(t, "knows", prop.Name)

	_, ok = person.PropertyForPredicate("http://example.org/none")
	assert.False(t, ok)
}

func TestNamedGraphStrategy(t *testing.T) {
	repo := newPersonRepository(t)
	doc, _ := repo.MappingFor("Document")

	title, ok := doc.Property("title")
	require.True(t, ok)
	assert.Equal(t, GraphNamed, title.Graph.Selection)
	assert.Equal(t, "http://example.org/meta", title.Graph.Named)
}

func TestRepositoryValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{
			name:    "empty type name",
			opts:    []Option{WithEntity("")},
			wantErr: "type name cannot be empty",
		},
		{
			name: "duplicate type",
			opts: []Option{
				WithEntity("Person"),
				WithEntity("Person"),
			},
			wantErr: "registered twice",
		},
		{
			name: "empty property name",
			opts: []Option{
				WithEntity("Person", WithProperty("", rdf.FoafName)),
			},
			wantErr: "property name cannot be empty",
		},
		{
			name: "empty predicate",
			opts: []Option{
				WithEntity("Person", WithProperty("name", "")),
			},
			wantErr: "cannot be empty",
		},
		{
			name: "duplicate property",
			opts: []Option{
				WithEntity("Person",
					WithProperty("name", rdf.FoafName),
					WithProperty("name", rdf.FoafNick)),
			},
			wantErr: "mapped twice",
		},
		{
			name: "dictionary without predicates",
			opts: []Option{
				WithEntity("Person",
					WithProperty("settings", "http://example.org/settings",
						AsDictionary("", ""))),
			},
			wantErr: "needs key and value predicates",
		},
		{
			name: "empty class IRI",
			opts: []Option{
				WithEntity("Person", WithClass("")),
			},
			wantErr: "class IRI cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRepository(tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPropertiesOrdering(t *testing.T) {
	repo := newPersonRepository(t)
	person, _ := repo.MappingFor("Person")

	props := person.Properties()
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"interests", "knows", "name", "nick", "settings"}, names)
}
