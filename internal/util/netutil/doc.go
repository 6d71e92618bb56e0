// Package netutil provides network helpers used around database provisioning:
// discovering the caller's public IPv4 address for security group ingress,
// and waiting for a database endpoint to accept TCP connections.
package netutil
