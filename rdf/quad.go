package rdf

import "fmt"

// EntityQuad is one fact owned by an entity: a (subject, predicate, object)
// statement, optionally scoped to a named graph. The owning entity is
// tracked separately from the subject because blank-node substructures
// (list nodes, dictionary entries) are owned by the entity whose property
// they encode even though they are not its subject.
//
// EntityQuad is comparable, which the entity store relies on for set-union
// staging of pending assertions and retractions.
type EntityQuad struct {
	// Owner is the entity this fact belongs to.
	Owner EntityID
	// Subject is the statement subject (IRI or blank node).
	Subject Node
	// Predicate is the statement predicate (always an IRI).
	Predicate Node
	// Object is the statement object (any term kind).
	Object Node
	// Graph is the named graph IRI, or "" for the default graph.
	Graph string
}

// NewEntityQuad creates a quad in the default graph.
func NewEntityQuad(owner EntityID, subject, predicate, object Node) EntityQuad {
	return EntityQuad{Owner: owner, Subject: subject, Predicate: predicate, Object: object}
}

// NewGraphQuad creates a quad scoped to a named graph.
func NewGraphQuad(owner EntityID, subject, predicate, object Node, graph string) EntityQuad {
	return EntityQuad{Owner: owner, Subject: subject, Predicate: predicate, Object: object, Graph: graph}
}

// InDefaultGraph reports whether the quad is in the default graph.
func (q EntityQuad) InDefaultGraph() bool { return q.Graph == "" }

// InGraph returns a copy of the quad rehomed to the given named graph.
func (q EntityQuad) InGraph(graph string) EntityQuad {
	q.Graph = graph
	return q
}

// String returns an N-Quads-style rendering, used in error messages and
// debugging output.
func (q EntityQuad) String() string {
	if q.Graph == "" {
		return fmt.Sprintf("%s %s %s .", q.Subject, q.Predicate, q.Object)
	}
	return fmt.Sprintf("%s %s %s <%s> .", q.Subject, q.Predicate, q.Object, q.Graph)
}
