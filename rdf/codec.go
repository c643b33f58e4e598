package rdf

import (
	"encoding/json"
	"fmt"
)

// Wire representations for adapters that ship quads as JSON (the NATS KV
// and websocket stores). The envelope keeps Node and EntityID opaque to
// callers while staying stable across adapter boundaries; blank-node scopes
// travel verbatim so identity survives the round trip.

type nodeEnvelope struct {
	Kind     string `json:"kind"`
	Value    string `json:"value"`
	Language string `json:"language,omitempty"`
	Datatype string `json:"datatype,omitempty"`
	Scope    string `json:"scope,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeEnvelope{
		Kind:     n.kind.String(),
		Value:    n.value,
		Language: n.language,
		Datatype: n.datatype,
		Scope:    n.scope,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	var env nodeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	switch env.Kind {
	case KindIRI.String():
		n.kind = KindIRI
	case KindBlank.String():
		n.kind = KindBlank
	case KindLiteral.String():
		n.kind = KindLiteral
	default:
		return fmt.Errorf("rdf: unknown node kind %q", env.Kind)
	}
	n.value = env.Value
	n.language = env.Language
	n.datatype = env.Datatype
	n.scope = env.Scope
	return nil
}

type idEnvelope struct {
	IRI   string `json:"iri,omitempty"`
	Blank string `json:"blank,omitempty"`
	Scope string `json:"scope,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (id EntityID) MarshalJSON() ([]byte, error) {
	return json.Marshal(idEnvelope{IRI: id.iri, Blank: id.blank, Scope: id.scope})
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	var env idEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	if env.IRI != "" && env.Blank != "" {
		return fmt.Errorf("rdf: entity id cannot be both IRI and blank")
	}
	id.iri = env.IRI
	id.blank = env.Blank
	id.scope = env.Scope
	return nil
}
