// Package storage provides the pluggable quad store adapter contract.
//
// # Overview
//
// The storage package defines the Store interface: the thin synchronous
// contract the entity layer uses to read and write raw graph data. Any
// concrete backend can sit behind it:
//   - memorystore: in-memory quad set with named graphs
//   - jsonldstore: JSON-LD document on disk (via piprate/json-gold)
//   - natsstore: NATS JetStream KV, one quad document per entity
//   - remotestore: remote adapter over a websocket JSON protocol
//
// # Core Concepts
//
// Union-Graph Reads:
//
// LoadEntity always reads across all named graphs; every returned quad
// carries the graph it came from ("" for the default graph). Graph
// filtering is the entity layer's job, where the property mapping's
// graph-selection strategy decides which of the loaded quads a given
// property observes. This keeps adapters trivial: one read mode, no
// per-property negotiation.
//
// Batch Atomicity:
//
// AssertEntity, RetractEntity, and ApplyChanges apply their quad batch as
// one visible unit: a concurrent or subsequent read sees either none or all
// of the batch. ApplyChanges applies retractions before assertions so a
// quad in both sets ends asserted. Backends that cannot guarantee hard
// atomicity across entities (e.g. one KV document per entity) must document
// the weaker unit they do guarantee.
//
// Context Everywhere:
//
// All operations accept context.Context for cancellation and timeouts.
// There is no cancellation primitive beyond that: an operation completes,
// fails, or (commit-side, adapter-level) retries a bounded number of times
// before surfacing failure.
//
// # Error Handling
//
// Adapters return errors classified by the framework's errors package:
//   - errors.WrapInvalid: malformed ids or quads
//   - errors.WrapTransient: I/O failures, lock contention (wrapping
//     errors.ErrStoreUnavailable where the medium is unreachable)
//   - errors.WrapFatal: corrupt persisted state
//
// Commit-side writes get bounded automatic retry with backoff inside the
// adapter (pkg/retry); load-side failures are never retried and propagate
// immediately.
//
// # Thread Safety
//
// All Store implementations must be safe for concurrent use from multiple
// goroutines.
package storage
