// Package ontologies provides the ontology provider: the lookup contract
// that maps vocabulary prefixes and term names to IRIs.
//
// A Provider is an explicit configuration object built once at entity
// context construction and passed by reference into every component that
// needs lookup. There is no package-level registry; two contexts can carry
// completely different ontology sets.
//
// The provider serves two resolution paths of dynamic member access:
//
//   - Prefixed: Resolve("foaf", "nick") returns the registered base IRI
//     joined with the local name. Unregistered prefixes fail with
//     ErrUnknownOntology.
//   - Unprefixed: ResolveTerm("nick") searches the declared terms of every
//     registered ontology. Exactly one match resolves; zero matches fail
//     with ErrNoSuchMember; several matches fail with ErrAmbiguousProperty
//     and a message enumerating every candidate as prefix:localName.
//
// Example:
//
//	provider, err := ontologies.NewProvider(
//	    ontologies.WithOntology("foaf", rdf.FoafNamespace,
//	        ontologies.WithTerms("name", "nick", "knows", "Person")),
//	    ontologies.WithOntology("rdf", rdf.RdfNamespace),
//	)
package ontologies
