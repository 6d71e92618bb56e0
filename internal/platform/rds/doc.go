// Package rds wraps the AWS RDS and EC2 APIs used to provision Multi-AZ DB
// clusters and the network resources they depend on.
//
// # Error shape
//
// Every call goes through a single wrapper that converts AWS API faults into
// a *ProviderError. Callers branch on [ProviderError.Kind] (or on the
// [ErrNotFound], [ErrInvalidState] and [ErrDuplicate] sentinels with
// errors.Is) instead of inspecting SDK error types. Describe calls that filter
// and find nothing report the same not-found error as a keyed lookup would.
// Throttled calls are retried with exponential backoff before surfacing.
//
// # Generic Operations
//
// EnsureOperation provides describe-or-create semantics for any resource:
//   - Describe succeeds: the existing resource is returned unchanged
//   - Describe fails with not found: Create is called
//   - Any other failure: returned to the caller
//
// No locking is performed. Two callers racing on the same name may both
// observe not found and both call Create.
//
// # Testing
//
// MockClient implements ControlPlane with per-method function fields for
// unit tests in other packages.
package rds
