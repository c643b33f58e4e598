// Package errors provides standardized error handling for RomanticWeb.
//
// # Overview
//
// The package implements a three-class error classification system:
// Transient (temporary, retryable, typically store I/O), Invalid (bad
// input or data, non-retryable), and Fatal (unrecoverable, stop
// processing). Classification lets storage adapters decide what to retry
// without string matching, and lets callers distinguish data errors from
// resolution failures.
//
// # Error Taxonomy
//
// Sentinel variables cover the conditions the entity layer surfaces:
//
//   - ErrInvalidArgument: nil/zero identifiers passed to creation APIs
//   - ErrMappingNotFound: typed creation for an unregistered mapping
//   - ErrUnknownOntology: dynamic access through an unregistered prefix
//   - ErrNoSuchMember: unprefixed name matching no known ontology term
//   - ErrAmbiguousProperty: unprefixed name matching terms in several
//     ontologies; the wrapping message enumerates every candidate
//   - ErrConversion: literal outside a converter's valid domain
//   - ErrStoreUnavailable: quad store adapter read/write failure
//   - ErrMalformedList: rdf:first/rdf:rest chain that is cyclic or does
//     not terminate at rdf:nil
//
// # Error Wrapping Pattern
//
// All wrapping follows the format "component.method: action failed: %w".
// Three wrappers set classification; Wrap preserves the original's:
//
//	errors.WrapTransient(err, "natsstore", "ApplyChanges", "put quads")
//	errors.WrapInvalid(err, "Context", "Create", "validate id")
//	errors.WrapFatal(err, "jsonldstore", "Load", "parse document")
//
// For conditions with no underlying cause, the Invalid/Transient/Fatal
// constructors create a classified error directly:
//
//	errors.Invalid("Context", "Create", "id cannot be zero")
//
// # Integration with errors.Is/As
//
// Classification and sentinels survive wrapping chains:
//
//	err := errors.WrapInvalid(errors.ErrMappingNotFound, "Context", "CreateTyped", "lookup mapping")
//	errors.Is(err, errors.ErrMappingNotFound) // true
//	errors.IsInvalid(err)                     // true
//
// # Retry Integration
//
// RetryConfig bridges classification to the pkg/retry framework: storage
// adapters wrap commit-side writes in bounded retry for transient errors
// only; load-side failures propagate immediately.
package errors
