// Package retry turns slow, asynchronous remote conditions into blocking calls.
//
// [Poll] retries an operation at a fixed interval until it succeeds, the
// policy's timeout elapses, or the context is cancelled. It is used to wait
// for database clusters to reach a lifecycle state and for endpoints to
// accept connections, emitting a progress line at a configurable cadence.
//
// [WithExponentialBackoff] retries a single control-plane call through short
// transient faults such as API throttling.
package retry
