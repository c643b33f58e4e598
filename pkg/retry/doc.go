// Package retry provides simple exponential backoff retry logic for transient failures.
//
// # Overview
//
// This package offers a minimal retry mechanism with exponential backoff,
// used by the storage adapters for commit-side writes. Load-side reads are
// never retried; a failed load propagates immediately to the caller.
//
// # Core Functions
//
//   - Do: Execute function with retry and exponential backoff
//   - DoWithResult: Execute function with retry, returns both result and error
//
// # Configuration
//
// DefaultConfig() gives 3 attempts with 100ms-5s delays. The storage
// adapters derive their write policy from errors.RetryConfig instead; its
// ToRetryConfig installs a RetryIf gate so only transient failures are
// retried.
//
// # Usage Examples
//
// Bounded retry around an adapter write:
//
//	err := retry.Do(ctx, cfg, func() error {
//	    return adapter.ApplyChanges(ctx, asserted, retracted)
//	})
//
// Marking a failure as permanent so it is surfaced without further attempts:
//
//	return retry.NonRetryable(err)
//
// # Context Cancellation
//
// All retry operations respect context cancellation and will immediately
// stop retrying when the context is cancelled, either during operation
// execution or during backoff delay.
//
// # Thread Safety
//
// All functions are safe for concurrent use. The jitter mechanism uses a
// thread-safe random source to avoid contention.
package retry
