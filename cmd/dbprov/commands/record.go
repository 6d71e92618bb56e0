package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dbprov/cmd/dbprov/handlers"
)

// Record returns the record command.
func Record() *cobra.Command {
	var (
		configPath string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "record ID",
		Short: "Print the published record of a cluster",
		Long: `Record reads the cluster record published to the configured record
bucket, including the master password.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Record(cmd.Context(), configPath, args[0], output)
		},
	}

	addConfigFlag(cmd, &configPath)
	addOutputFlag(cmd, &output)

	return cmd
}
