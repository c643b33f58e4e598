package rdf

import (
	"fmt"
	"strings"
)

// NodeKind identifies the kind of graph term a Node holds.
type NodeKind uint8

const (
	// KindLiteral represents a literal term (value with optional language
	// tag or datatype IRI).
	KindLiteral NodeKind = iota
	// KindBlank represents a blank node term (locally-scoped identity).
	KindBlank
	// KindIRI represents an IRI term.
	KindIRI
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindBlank:
		return "blank"
	case KindIRI:
		return "iri"
	default:
		return "unknown"
	}
}

// Node is an immutable RDF graph term: an IRI, a literal, or a blank node.
//
// The zero Node is a literal with an empty lexical value; callers should use
// the constructors rather than struct literals. Node is comparable, so ==
// gives term equality and Nodes can key maps. For blank nodes equality
// includes the scope, so identical local identifiers owned by different
// entities compare unequal.
type Node struct {
	kind     NodeKind
	value    string // IRI string, blank identifier, or literal lexical form
	language string // literal language tag; mutually exclusive with datatype
	datatype string // literal datatype IRI; mutually exclusive with language
	scope    string // blank node scope (owning entity id and graph)
}

// NewIRI creates an IRI node.
func NewIRI(iri string) Node {
	return Node{kind: KindIRI, value: iri}
}

// NewBlank creates a blank node with the given local identifier, scoped to
// the owning entity id and originating graph. The scope participates in
// equality; see the package documentation.
func NewBlank(identifier string, owner EntityID, graph string) Node {
	return Node{kind: KindBlank, value: identifier, scope: blankScope(owner, graph)}
}

// NewLiteral creates a plain literal node.
func NewLiteral(value string) Node {
	return Node{kind: KindLiteral, value: value}
}

// NewLangLiteral creates a language-tagged literal node. Language tags are
// normalized to lower case per RDF 1.1.
func NewLangLiteral(value, language string) Node {
	return Node{kind: KindLiteral, value: value, language: strings.ToLower(language)}
}

// NewTypedLiteral creates a datatyped literal node.
func NewTypedLiteral(value, datatypeIRI string) Node {
	return Node{kind: KindLiteral, value: value, datatype: datatypeIRI}
}

// Kind returns the node's term kind.
func (n Node) Kind() NodeKind { return n.kind }

// IsIRI reports whether the node is an IRI term.
func (n Node) IsIRI() bool { return n.kind == KindIRI }

// IsBlank reports whether the node is a blank node term.
func (n Node) IsBlank() bool { return n.kind == KindBlank }

// IsLiteral reports whether the node is a literal term.
func (n Node) IsLiteral() bool { return n.kind == KindLiteral }

// Value returns the IRI string, blank identifier, or literal lexical form.
func (n Node) Value() string { return n.value }

// Language returns the literal language tag, or "" when absent.
func (n Node) Language() string { return n.language }

// Datatype returns the literal datatype IRI, or "" when absent.
func (n Node) Datatype() string { return n.datatype }

// Scope returns the blank node scope key, or "" for non-blank nodes.
func (n Node) Scope() string { return n.scope }

// Compare orders nodes: literal < blank < IRI; literals order by value,
// then datatype, then language; blank nodes and IRIs by value. Returns a
// negative number, zero, or a positive number as n sorts before, equal to,
// or after other.
func (n Node) Compare(other Node) int {
	if n.kind != other.kind {
		return int(n.kind) - int(other.kind)
	}
	if c := strings.Compare(n.value, other.value); c != 0 {
		return c
	}
	if n.kind == KindLiteral {
		if c := strings.Compare(n.datatype, other.datatype); c != 0 {
			return c
		}
		return strings.Compare(n.language, other.language)
	}
	if n.kind == KindBlank {
		return strings.Compare(n.scope, other.scope)
	}
	return 0
}

// String returns an N-Triples-style rendering of the node.
func (n Node) String() string {
	switch n.kind {
	case KindIRI:
		return "<" + n.value + ">"
	case KindBlank:
		return "_:" + n.value
	default:
		if n.language != "" {
			return fmt.Sprintf("%q@%s", n.value, n.language)
		}
		if n.datatype != "" {
			return fmt.Sprintf("%q^^<%s>", n.value, n.datatype)
		}
		return fmt.Sprintf("%q", n.value)
	}
}

// EntityID converts the node to an entity identifier. Only IRI and blank
// nodes identify entities; converting a literal node is an error.
func (n Node) EntityID() (EntityID, error) {
	switch n.kind {
	case KindIRI:
		return EntityID{iri: n.value}, nil
	case KindBlank:
		return EntityID{blank: n.value, scope: n.scope}, nil
	default:
		return EntityID{}, fmt.Errorf("literal node %s cannot identify an entity", n)
	}
}

// blankScope builds the scope key for a blank node owned by an entity in a
// graph. The key only needs to be stable and discriminating.
func blankScope(owner EntityID, graph string) string {
	return owner.String() + "|" + graph
}
