package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dbprov/cmd/dbprov/handlers"
)

// Status returns the status command.
func Status() *cobra.Command {
	var (
		configPath string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "status ID",
		Short: "Show the current status of a cluster",
		Long: `Status queries the cluster once. A cluster that does not exist is
reported as deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Status(cmd.Context(), configPath, args[0], output)
		},
	}

	addConfigFlag(cmd, &configPath)
	addOutputFlag(cmd, &output)

	return cmd
}
