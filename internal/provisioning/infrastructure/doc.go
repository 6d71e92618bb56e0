// Package infrastructure ensures the dependent resources database clusters
// are placed into: the default VPC lookup, the DB subnet group spanning its
// subnets, and the optional security group opened to the harness.
//
// Every resource is created only when it does not exist yet. Existing
// resources are adopted as-is.
package infrastructure
