// Package handlers implements the business logic for CLI commands.
//
// Each handler loads configuration, builds the control-plane client and a
// provisioning context, and runs one operation. Construction goes through
// package-level factory variables so tests can substitute fakes.
package handlers
