// Package provisioning provides shared types, interfaces, and orchestration for
// database cluster provisioning.
//
// # Subpackages
//
//   - infrastructure/ - Default VPC lookup, subnet group, security group
//   - cluster/ - Cluster creation, status waits, connectivity, deletion
//   - destroy/ - Best-effort teardown of clusters and dependent resources
//
// # Core Types
//
// Context carries configuration, state, the control-plane client, timeouts,
// the public IP resolver and the observer. It is built once per command and
// passed to every phase; nothing is cached in package globals.
// Phase defines a provisioning step with Name() and Provision() methods.
// State accumulates results from each phase (network resources, cluster records).
package provisioning
