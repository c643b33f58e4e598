package mapping

import (
	"fmt"
	"sort"

	"github.com/alien-mcl/RomanticWeb/errors"
)

// Repository is the lookup contract the entity layer consumes. Supplied at
// context construction and queried lazily; implementations must be safe for
// concurrent reads.
type Repository interface {
	// MappingFor returns the mapping registered under a type name, or
	// false when the type is unmapped.
	MappingFor(typeName string) (*Entity, bool)
	// TypeNames returns all registered type names in sorted order.
	TypeNames() []string
}

// StaticRepository is an immutable Repository built from functional options.
type StaticRepository struct {
	byName map[string]*Entity
}

// Option configures a StaticRepository during construction.
type Option func(*StaticRepository) error

// PropertyOption configures a property mapping during registration.
type PropertyOption func(*Property)

// WithConverter selects a named converter for the property's scalar values.
func WithConverter(name string) PropertyOption {
	return func(p *Property) { p.Converter = name }
}

// AsCollection stores the property as an order-irrelevant multi-value set.
func AsCollection() PropertyOption {
	return func(p *Property) { p.Storage = StorageMulti }
}

// AsList stores the property as an ordered rdf:first/rdf:rest chain.
func AsList() PropertyOption {
	return func(p *Property) { p.Storage = StorageList }
}

// AsEntity marks the property's values as associated entities. The type
// name may be empty for untyped associations.
func AsEntity(typeName string) PropertyOption {
	return func(p *Property) {
		p.IsEntity = true
		p.EntityType = typeName
	}
}

// AsDictionary stores the property as key/value entries held on per-entry
// nodes linked through the given predicates.
func AsDictionary(keyPredicate, valuePredicate string) PropertyOption {
	return func(p *Property) {
		p.IsDictionary = true
		p.KeyPredicate = keyPredicate
		p.ValuePredicate = valuePredicate
	}
}

// InGraph targets the property's reads and writes at one named graph.
func InGraph(graphIRI string) PropertyOption {
	return func(p *Property) {
		p.Graph = GraphStrategy{Selection: GraphNamed, Named: graphIRI}
	}
}

// FromUnionGraph reads the property across all named graphs. Writes fall
// back to the context default graph unless overridden.
func FromUnionGraph() PropertyOption {
	return func(p *Property) {
		p.Graph = GraphStrategy{Selection: GraphUnion}
	}
}

// EntityOption configures an entity mapping during registration.
type EntityOption func(*Entity) error

// WithClass declares a class IRI asserted as rdf:type when the entity is
// saved. Classes accumulate in declaration order.
func WithClass(classIRI string) EntityOption {
	return func(e *Entity) error {
		if classIRI == "" {
			return errors.Invalid("StaticRepository", "WithClass",
				fmt.Sprintf("type %q: class IRI cannot be empty", e.Name))
		}
		e.Classes = append(e.Classes, classIRI)
		return nil
	}
}

// WithProperty maps a logical member name onto a predicate.
func WithProperty(name, predicateIRI string, opts ...PropertyOption) EntityOption {
	return func(e *Entity) error {
		if name == "" {
			return errors.Invalid("StaticRepository", "WithProperty",
				fmt.Sprintf("type %q: property name cannot be empty", e.Name))
		}
		if predicateIRI == "" {
			return errors.Invalid("StaticRepository", "WithProperty",
				fmt.Sprintf("type %q: predicate for %q cannot be empty", e.Name, name))
		}
		if _, exists := e.properties[name]; exists {
			return errors.Invalid("StaticRepository", "WithProperty",
				fmt.Sprintf("type %q: property %q mapped twice", e.Name, name))
		}

		prop := Property{Name: name, Predicate: predicateIRI}
		for _, opt := range opts {
			opt(&prop)
		}
		if prop.IsDictionary && (prop.KeyPredicate == "" || prop.ValuePredicate == "") {
			return errors.Invalid("StaticRepository", "WithProperty",
				fmt.Sprintf("type %q: dictionary property %q needs key and value predicates", e.Name, name))
		}
		if prop.IsDictionary && prop.Storage == StorageList {
			return errors.Invalid("StaticRepository", "WithProperty",
				fmt.Sprintf("type %q: property %q cannot be both dictionary and list", e.Name, name))
		}

		e.properties[name] = prop
		return nil
	}
}

// WithEntity registers a type mapping under a name.
func WithEntity(typeName string, opts ...EntityOption) Option {
	return func(r *StaticRepository) error {
		if typeName == "" {
			return errors.Invalid("StaticRepository", "WithEntity", "type name cannot be empty")
		}
		if _, exists := r.byName[typeName]; exists {
			return errors.Invalid("StaticRepository", "WithEntity",
				fmt.Sprintf("type %q registered twice", typeName))
		}

		entity := &Entity{Name: typeName, properties: make(map[string]Property)}
		for _, opt := range opts {
			if err := opt(entity); err != nil {
				return err
			}
		}
		r.byName[typeName] = entity
		return nil
	}
}

// NewRepository builds an immutable mapping repository.
func NewRepository(opts ...Option) (*StaticRepository, error) {
	r := &StaticRepository{byName: make(map[string]*Entity)}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MappingFor returns the mapping registered under a type name.
func (r *StaticRepository) MappingFor(typeName string) (*Entity, bool) {
	entity, ok := r.byName[typeName]
	return entity, ok
}

// TypeNames returns all registered type names in sorted order.
func (r *StaticRepository) TypeNames() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
