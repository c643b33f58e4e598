package mapping

import "sort"

// StorageStrategy selects how multiple values of one predicate are stored
// and presented.
type StorageStrategy int

const (
	// StorageSingle maps the property to one value. When the store holds
	// several triples for the predicate an implementation-defined single
	// representative is taken (first-seen); this is documented
	// non-determinism, not an error.
	StorageSingle StorageStrategy = iota
	// StorageMulti maps the property to an order-irrelevant set of values,
	// one per matching triple.
	StorageMulti
	// StorageList maps the property to an ordered rdf:first/rdf:rest chain.
	StorageList
)

// String returns the string representation of the StorageStrategy.
func (s StorageStrategy) String() string {
	switch s {
	case StorageSingle:
		return "single"
	case StorageMulti:
		return "multi"
	case StorageList:
		return "list"
	default:
		return "unknown"
	}
}

// GraphSelection determines which named graph(s) a property reads from.
type GraphSelection int

const (
	// GraphDefault reads and writes the context's default graph.
	GraphDefault GraphSelection = iota
	// GraphNamed reads and writes one specific named graph.
	GraphNamed
	// GraphUnion reads across all named graphs. Writes still target exactly
	// one graph, chosen by precedence: explicit override > property-level
	// policy > context default.
	GraphUnion
)

// String returns the string representation of the GraphSelection.
func (g GraphSelection) String() string {
	switch g {
	case GraphDefault:
		return "default"
	case GraphNamed:
		return "named"
	case GraphUnion:
		return "union"
	default:
		return "unknown"
	}
}

// GraphStrategy is the resolved graph-selection policy for one property.
type GraphStrategy struct {
	Selection GraphSelection
	// Named is the target graph IRI when Selection is GraphNamed.
	Named string
}

// Property maps one logical property name onto a predicate plus the
// conversion, storage, and graph policies that govern it. Immutable once
// the owning repository is built.
type Property struct {
	// Name is the logical member name resolved on typed proxies.
	Name string
	// Predicate is the predicate IRI.
	Predicate string
	// Converter names the registered converter for scalar values; empty
	// selects the fallback converter.
	Converter string
	// Storage selects single, multi-value, or rdf-list encoding.
	Storage StorageStrategy
	// Graph selects which named graph(s) reads pull from and writes target.
	Graph GraphStrategy
	// IsEntity marks the value type as an associated entity rather than a
	// scalar; objects convert through EntityID extraction and nested
	// proxy creation.
	IsEntity bool
	// EntityType optionally binds associated entities to a registered
	// mapping, making nested access typed.
	EntityType string
	// IsDictionary marks the property as key/value entries held on
	// per-entry nodes.
	IsDictionary bool
	// KeyPredicate and ValuePredicate carry the entry predicates for
	// dictionary properties.
	KeyPredicate   string
	ValuePredicate string
}

// Entity describes how one registered type maps onto the graph: its class
// memberships and its property mappings. Immutable once built; look
// properties up by logical name.
type Entity struct {
	// Name is the registered type name mappings are looked up by.
	Name string
	// Classes are rdf:type IRIs asserted for the entity on save, in
	// declaration order.
	Classes []string

	properties map[string]Property
}

// Property returns the property mapping for a logical member name.
func (e *Entity) Property(name string) (Property, bool) {
	prop, ok := e.properties[name]
	return prop, ok
}

// PropertyForPredicate returns the first property mapping bound to the
// given predicate IRI, if any.
func (e *Entity) PropertyForPredicate(predicateIRI string) (Property, bool) {
	for _, name := range e.propertyNames() {
		if e.properties[name].Predicate == predicateIRI {
			return e.properties[name], true
		}
	}
	return Property{}, false
}

// Properties returns all property mappings ordered by logical name.
func (e *Entity) Properties() []Property {
	names := e.propertyNames()
	props := make([]Property, 0, len(names))
	for _, name := range names {
		props = append(props, e.properties[name])
	}
	return props
}

func (e *Entity) propertyNames() []string {
	names := make([]string, 0, len(e.properties))
	for name := range e.properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
