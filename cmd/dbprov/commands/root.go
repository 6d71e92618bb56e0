// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dbprov/cmd/dbprov/handlers"
	"github.com/imamik/dbprov/internal/config"
)

// Root returns the root command for the dbprov CLI.
//
// The root command owns the flags every subcommand shares and writes the
// run's metrics after any subcommand finishes.
func Root() *cobra.Command {
	var metricsFile string

	cmd := &cobra.Command{
		Use:           "dbprov",
		Short:         "Provision and tear down managed database clusters for test runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if metricsFile == "" {
				return nil
			}
			return handlers.WriteMetrics(metricsFile)
		},
	}

	cmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format to this path")

	// Lifecycle commands
	cmd.AddCommand(Create())
	cmd.AddCommand(Status())
	cmd.AddCommand(Wait())
	cmd.AddCommand(Delete())
	cmd.AddCommand(Destroy())

	// Utility commands
	cmd.AddCommand(Record())
	cmd.AddCommand(Version())

	return cmd
}

// addConfigFlag binds the shared --config flag.
func addConfigFlag(cmd *cobra.Command, configPath *string) {
	cmd.Flags().StringVarP(configPath, "config", "c", config.DefaultConfigFile, "Path to configuration file (may be absent when it is the default)")
}

// addOutputFlag binds the shared --output flag.
func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", "", "Output format: table, json or yaml (default: table on a terminal, json otherwise)")
}
