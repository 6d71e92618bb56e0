// Package destroy handles teardown of database clusters and the resources
// they depend on.
//
// The sweep targets every cluster visible to the credentials in use, every
// DB subnet group, and the security groups carrying the managed-by tag. It
// never stops at the first failure: each resource gets its own Result and
// only listing failures are returned as an error.
package destroy
