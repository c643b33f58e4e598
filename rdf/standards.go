package rdf

// Standard Vocabulary IRIs
//
// These constants cover the W3C vocabularies the core itself depends on
// (rdf:type for class membership, rdf:first/rest/nil for list encoding,
// the XSD datatypes the built-in converters emit) plus the vocabularies
// commonly registered as ontologies in tests and examples.
//
// References:
// - RDF: https://www.w3.org/TR/rdf11-concepts/
// - RDF Schema: https://www.w3.org/TR/rdf-schema/
// - XSD: https://www.w3.org/TR/xmlschema11-2/
// - FOAF: http://xmlns.com/foaf/spec/

// RDF core namespace
const (
	// RdfNamespace is the base IRI of the RDF vocabulary.
	RdfNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// RdfType asserts class membership; written for every class declared
	// in an entity mapping when the entity is saved.
	RdfType = RdfNamespace + "type"

	// RdfFirst links an RDF list node to its item.
	RdfFirst = RdfNamespace + "first"

	// RdfRest links an RDF list node to the remainder of the list.
	RdfRest = RdfNamespace + "rest"

	// RdfNil terminates every well-formed RDF list.
	RdfNil = RdfNamespace + "nil"
)

// RDF Schema namespace
const (
	// RdfsNamespace is the base IRI of the RDF Schema vocabulary.
	RdfsNamespace = "http://www.w3.org/2000/01/rdf-schema#"

	// RdfsLabel provides a human-readable name for a resource.
	RdfsLabel = RdfsNamespace + "label"

	// RdfsComment provides a human-readable description.
	RdfsComment = RdfsNamespace + "comment"
)

// XSD datatype IRIs emitted by the built-in converters
const (
	// XsdNamespace is the base IRI of the XML Schema datatypes.
	XsdNamespace = "http://www.w3.org/2001/XMLSchema#"

	// XsdString is the implicit datatype of plain literals.
	XsdString = XsdNamespace + "string"

	// XsdInteger is the datatype written by the integer converter.
	XsdInteger = XsdNamespace + "integer"

	// XsdDouble is the datatype written by the floating-point converter.
	XsdDouble = XsdNamespace + "double"

	// XsdBoolean is the datatype written by the boolean converter.
	XsdBoolean = XsdNamespace + "boolean"

	// XsdDateTime is the datatype written by the time converter.
	XsdDateTime = XsdNamespace + "dateTime"
)

// FOAF namespace, used widely in tests and examples
const (
	// FoafNamespace is the base IRI of the Friend-of-a-Friend vocabulary.
	FoafNamespace = "http://xmlns.com/foaf/0.1/"

	// FoafPerson is the foaf:Person class IRI.
	FoafPerson = FoafNamespace + "Person"

	// FoafName is the foaf:name predicate IRI.
	FoafName = FoafNamespace + "name"

	// FoafKnows is the foaf:knows predicate IRI.
	FoafKnows = FoafNamespace + "knows"

	// FoafNick is the foaf:nick predicate IRI.
	FoafNick = FoafNamespace + "nick"
)
