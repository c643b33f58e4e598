package entities

import (
	"context"
	"fmt"
	"sort"

	"github.com/alien-mcl/RomanticWeb/errors"
	"github.com/alien-mcl/RomanticWeb/mapping"
	"github.com/alien-mcl/RomanticWeb/ontologies"
	"github.com/alien-mcl/RomanticWeb/rdf"
)

// Entity is a lazy proxy over one graph resource. It holds no property
// state of its own: every read resolves against the context's entity store,
// loading the resource's quads on first access, and every write stages a
// change there. Proxies are cheap handles; all proxies for one id share the
// same identity-mapped record and observe each other's uncommitted writes.
type Entity struct {
	ctx     *Context
	slot    int
	mapping *mapping.Entity // nil for untyped proxies

	// graphOverride pins all reads and writes to one graph. Set internally
	// when a proxy is reached through a named-graph property, so nested
	// structures stay in the graph that holds their head.
	graphOverride *string
}

// ID returns the entity's identifier.
func (e *Entity) ID() rdf.EntityID {
	return e.ctx.record(e.slot).id
}

// Node returns the entity's identifier as a graph term.
func (e *Entity) Node() rdf.Node {
	return e.ID().Node()
}

// Equal reports identity equality by id alone. Typed and untyped proxies
// for one resource compare equal, as do proxies obtained from different
// contexts.
func (e *Entity) Equal(other *Entity) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.ID() == other.ID()
}

// Mapping returns the bound mapping, or nil for untyped proxies.
func (e *Entity) Mapping() *mapping.Entity {
	return e.mapping
}

// ResolutionKind classifies what a member name resolved to.
type ResolutionKind int

const (
	// ResolutionMapped is a property declared in the bound mapping.
	ResolutionMapped ResolutionKind = iota
	// ResolutionTerm is an unprefixed ontology term matched uniquely across
	// the registered vocabularies.
	ResolutionTerm
	// ResolutionOntology is a registered vocabulary prefix; access continues
	// through a scoped accessor.
	ResolutionOntology
)

// Resolution is the outcome of member-name dispatch.
type Resolution struct {
	Kind ResolutionKind
	// Property carries the full mapping policy for ResolutionMapped, or a
	// synthesized dynamic mapping for ResolutionTerm.
	Property mapping.Property
	// Prefix is the vocabulary prefix for ResolutionOntology.
	Prefix string
}

// Resolve dispatches a member name. Precedence: a property of the bound
// mapping wins, then a registered ontology prefix, then unique unprefixed
// term search across all registered ontologies. No match fails with
// ErrNoSuchMember; multiple term matches fail with ErrAmbiguousProperty
// naming every candidate.
func (e *Entity) Resolve(name string) (Resolution, error) {
	if e.mapping != nil {
		if prop, ok := e.mapping.Property(name); ok {
			return Resolution{Kind: ResolutionMapped, Property: prop}, nil
		}
	}
	if e.ctx.ontologies.HasPrefix(name) {
		return Resolution{Kind: ResolutionOntology, Prefix: name}, nil
	}

	iri, err := e.ctx.ontologies.ResolveTerm(name)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Kind: ResolutionTerm, Property: dynamicProperty(name, iri)}, nil
}

// dynamicProperty synthesizes the mapping policy for dynamic access: reads
// span all graphs, writes fall back to the context default graph.
func dynamicProperty(name, predicateIRI string) mapping.Property {
	return mapping.Property{
		Name:      name,
		Predicate: predicateIRI,
		Graph:     mapping.GraphStrategy{Selection: mapping.GraphUnion},
	}
}

// Get reads a member by name. Mapped properties follow their declared
// storage strategy: single yields one value (or nil when absent), multi
// yields a value set, list yields an ordered slice, dictionary yields a map.
// Dynamic access yields a single representative value; use GetAll for every
// matching triple. Resolving to an ontology prefix is an error here; use
// Ontology instead.
func (e *Entity) Get(ctx context.Context, name string) (any, error) {
	res, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}
	if res.Kind == ResolutionOntology {
		return nil, errors.WrapInvalid(errors.ErrInvalidArgument, "Entity", "Get",
			fmt.Sprintf("read %q: names an ontology prefix, use Ontology(%q)", name, name))
	}
	return e.readProperty(ctx, res.Property)
}

// GetAll reads every value of a member as a slice, regardless of the
// declared storage strategy.
func (e *Entity) GetAll(ctx context.Context, name string) ([]any, error) {
	res, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}
	if res.Kind == ResolutionOntology {
		return nil, errors.WrapInvalid(errors.ErrInvalidArgument, "Entity", "GetAll",
			fmt.Sprintf("read %q: names an ontology prefix, use Ontology(%q)", name, name))
	}

	prop := res.Property
	if prop.Storage == mapping.StorageSingle && !prop.IsDictionary {
		prop.Storage = mapping.StorageMulti
	}
	v, err := e.readProperty(ctx, prop)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	if values, ok := v.([]any); ok {
		return values, nil
	}
	return []any{v}, nil
}

// Set writes a member by name, replacing every existing value of its
// predicate in the target graph. Multi-value and list members take a slice;
// dictionary members take a map. Writes are staged; nothing reaches the
// adapter until Commit.
func (e *Entity) Set(ctx context.Context, name string, value any) error {
	res, err := e.Resolve(name)
	if err != nil {
		return err
	}
	if res.Kind == ResolutionOntology {
		return errors.WrapInvalid(errors.ErrInvalidArgument, "Entity", "Set",
			fmt.Sprintf("write %q: names an ontology prefix, use Ontology(%q)", name, name))
	}
	return e.writeProperty(ctx, res.Property, value)
}

// List returns the ordered-collection adapter for a member declared with
// list storage, bound to the graph holding the chain.
func (e *Entity) List(name string) (*List, error) {
	res, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}
	if res.Property.Storage != mapping.StorageList {
		return nil, errors.WrapInvalid(errors.ErrInvalidArgument, "Entity", "List",
			fmt.Sprintf("adapt %q: member is not declared as a list", name))
	}
	return newList(e, res.Property), nil
}

// Ontology returns a scoped accessor for one registered vocabulary prefix.
// Member names on the accessor resolve open-world against that vocabulary
// alone, so ambiguity across vocabularies cannot arise.
func (e *Entity) Ontology(prefix string) (*OntologyAccessor, error) {
	ont, ok := e.ctx.ontologies.Ontology(prefix)
	if !ok {
		return nil, errors.WrapInvalid(errors.ErrUnknownOntology, "Entity", "Ontology",
			fmt.Sprintf("prefix %q", prefix))
	}
	return &OntologyAccessor{entity: e, ont: ont}, nil
}

// IsA reports whether the entity has an asserted rdf:type of the class
// named prefix:class. An unregistered prefix is an error; a class the
// entity does not carry is simply false.
func (e *Entity) IsA(ctx context.Context, prefix, class string) (bool, error) {
	classIRI, err := e.ctx.ontologies.Resolve(prefix, class)
	if err != nil {
		return false, err
	}

	types, err := e.Types(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range types {
		if t == classIRI {
			return true, nil
		}
	}
	return false, nil
}

// Types returns the entity's asserted rdf:type class IRIs across all
// graphs, sorted.
func (e *Entity) Types(ctx context.Context) ([]string, error) {
	objects, err := e.ctx.store.QuadsMatching(ctx, e.ID(), e.Node(), rdf.RdfType, e.readFilter(typeProperty()))
	if err != nil {
		return nil, err
	}

	var types []string
	seen := make(map[string]struct{})
	for _, o := range objects {
		if !o.IsIRI() {
			continue
		}
		if _, dup := seen[o.Value()]; dup {
			continue
		}
		seen[o.Value()] = struct{}{}
		types = append(types, o.Value())
	}
	sort.Strings(types)
	return types, nil
}

func typeProperty() mapping.Property {
	return dynamicProperty("type", rdf.RdfType)
}

// Invalidate drops the entity's cached quad view; the next read loads fresh
// from the adapter. Staged changes are kept.
func (e *Entity) Invalidate() {
	e.ctx.store.Invalidate(e.ID())
}

// OntologyAccessor is dynamic access scoped to one vocabulary. Local names
// resolve open-world: any name becomes baseIRI+name without consulting the
// declared term set.
type OntologyAccessor struct {
	entity *Entity
	ont    ontologies.Ontology
}

// Get reads the term's single representative value.
func (a *OntologyAccessor) Get(ctx context.Context, localName string) (any, error) {
	return a.entity.readProperty(ctx, dynamicProperty(localName, a.ont.Term(localName)))
}

// GetAll reads every value of the term.
func (a *OntologyAccessor) GetAll(ctx context.Context, localName string) ([]any, error) {
	prop := dynamicProperty(localName, a.ont.Term(localName))
	prop.Storage = mapping.StorageMulti
	v, err := a.entity.readProperty(ctx, prop)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.([]any), nil
}

// Set writes the term, replacing its existing values in the target graph.
func (a *OntologyAccessor) Set(ctx context.Context, localName string, value any) error {
	return a.entity.writeProperty(ctx, dynamicProperty(localName, a.ont.Term(localName)), value)
}
