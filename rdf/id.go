package rdf

import "strings"

// EntityID identifies an entity: either an absolute IRI, or a blank-node
// identifier scoped to its owning entity and originating graph.
//
// EntityID is a comparable value type; == gives identity equality. The zero
// EntityID is invalid and reports IsZero() == true; creation APIs reject it.
type EntityID struct {
	iri   string // absolute IRI; set for IRI identities
	blank string // blank node local identifier; set for blank identities
	scope string // blank node scope (owning entity id and graph)
}

// NewEntityID creates an IRI-based entity identifier. Leading and trailing
// whitespace is trimmed so equal IRIs normalize to equal ids.
func NewEntityID(iri string) EntityID {
	return EntityID{iri: strings.TrimSpace(iri)}
}

// NewBlankEntityID creates a blank-node entity identifier scoped to the
// owning entity and originating graph.
func NewBlankEntityID(identifier string, owner EntityID, graph string) EntityID {
	return EntityID{blank: identifier, scope: blankScope(owner, graph)}
}

// IsZero reports whether the id is the invalid zero value.
func (id EntityID) IsZero() bool {
	return id.iri == "" && id.blank == ""
}

// IsBlank reports whether the id identifies a blank node.
func (id EntityID) IsBlank() bool { return id.blank != "" }

// IRI returns the absolute IRI for IRI-based ids, or "" for blank ids.
func (id EntityID) IRI() string { return id.iri }

// String returns the IRI, or "_:identifier" for blank ids.
func (id EntityID) String() string {
	if id.IsBlank() {
		return "_:" + id.blank
	}
	return id.iri
}

// Node converts the id back to a graph term: an IRI node or a blank node
// carrying the original scope.
func (id EntityID) Node() Node {
	if id.IsBlank() {
		return Node{kind: KindBlank, value: id.blank, scope: id.scope}
	}
	return Node{kind: KindIRI, value: id.iri}
}
