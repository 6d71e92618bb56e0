package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dbprov/cmd/dbprov/handlers"
)

// Wait returns the wait command.
func Wait() *cobra.Command {
	var (
		configPath string
		target     string
	)

	cmd := &cobra.Command{
		Use:   "wait ID",
		Short: "Block until a cluster reaches a status",
		Long: `Wait polls the cluster until it reports the requested status or the
timeout elapses. Timeouts and intervals come from the DBPROV_* environment
variables.

Example:
  dbprov wait itest-a --for deleted`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Wait(cmd.Context(), configPath, args[0], target)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&target, "for", "available", "Status to wait for: available or deleted")

	return cmd
}
