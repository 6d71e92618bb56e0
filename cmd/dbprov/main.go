// Package main is the entry point for the dbprov CLI.
//
// dbprov provisions and tears down managed database clusters for test runs.
// It turns the asynchronous cloud control plane into blocking, bounded
// operations: create returns once the cluster is available, destroy sweeps
// every cluster and the resources they depend on.
//
// Commands: create, status, wait, delete, destroy, record, version.
//
// For detailed usage information, run:
//
//	dbprov --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/dbprov/cmd/dbprov/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// Interrupts cancel in-flight waits instead of killing the process mid-call.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
