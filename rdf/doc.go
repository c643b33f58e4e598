// Package rdf provides the immutable graph term model used throughout
// RomanticWeb: Node (IRI, literal, blank node), EntityID (entity identity
// including scoped blank-node identity), and EntityQuad (one fact owned by
// an entity, optionally scoped to a named graph).
//
// All types in this package are comparable value types. They are created
// freely, never mutated, and are safe to use as map keys, which is what the
// change-tracking layer relies on for set-union staging semantics.
//
// # Term Ordering
//
// Nodes have a total order used for deterministic output: literals sort
// before blank nodes, which sort before IRIs. Literals order by lexical
// value, then datatype, then language tag.
//
// # Blank Node Scoping
//
// Blank node identifiers are only unique within a scope. A blank Node and a
// blank EntityID therefore carry the owning entity id and originating graph;
// two blank nodes with the same local identifier but different owners are
// never equal.
package rdf
