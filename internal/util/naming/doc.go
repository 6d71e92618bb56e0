// Package naming provides consistent names for provisioned AWS resources.
//
// Cluster identifiers default to dbprov-{test-id}; dependent resources are
// named after the subnet group they accompany so one test environment's
// resources sort together in the console.
package naming
