// Package romanticweb maps Go values onto RDF object graphs.
//
// The module is layered bottom-up:
//
//	┌─────────────────────────────────────┐
//	│            entities                 │  Contexts, lazy entity
//	│  (Context, Entity, EntityStore)     │  proxies, change tracking
//	└─────────────────────────────────────┘
//	           ↓ resolves through
//	┌─────────────────────────────────────┐
//	│      mapping / ontologies           │  Property mappings,
//	│                                     │  vocabulary providers
//	└─────────────────────────────────────┘
//	           ↓ reads and writes
//	┌─────────────────────────────────────┐
//	│            storage                  │  Quad store adapters:
//	│  (memory, jsonld, nats, remote)     │  one contract, many backends
//	└─────────────────────────────────────┘
//
// The rdf package supplies the term model shared by every layer: IRIs,
// literals, scoped blank nodes, and owner-tagged quads.
//
// A Context is the unit of work. Entities created or loaded through it are
// lazy proxies; property reads resolve through mappings to quad lookups,
// property writes stage assertions and retractions until Commit flushes
// them to the adapter in one batch.
//
// See the entities package for usage examples.
package romanticweb
