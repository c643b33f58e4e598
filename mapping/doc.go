// Package mapping provides the static mapping model: the read-only
// description of how a registered entity type's properties and classes map
// onto predicates, converters, storage strategies, and named graphs.
//
// The model is the *result* of mapping declaration, not the declaration
// syntax itself. A mapping is built once through functional options,
// validated, and then consumed read-only by the entity layer; absence of a
// mapping for a type is not an error at the model level: untyped dynamic
// access works without one.
//
// Example:
//
//	repo, err := mapping.NewRepository(
//	    mapping.WithEntity("Person",
//	        mapping.WithClass(rdf.FoafPerson),
//	        mapping.WithProperty("name", rdf.FoafName),
//	        mapping.WithProperty("knows", rdf.FoafKnows,
//	            mapping.AsEntity("Person"), mapping.AsCollection()),
//	        mapping.WithProperty("interests", "http://example.org/interests",
//	            mapping.AsList()),
//	    ),
//	)
package mapping
