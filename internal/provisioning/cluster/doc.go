// Package cluster drives the database cluster lifecycle:
// absent, creating, available, deleting, deleted.
//
// Create submits a cluster and blocks until the control plane reports it
// available, optionally until its writer endpoint accepts connections.
// AwaitStatus and Status treat a cluster that can no longer be found as
// deleted, so waiting for deletion ends when the cluster disappears.
package cluster
