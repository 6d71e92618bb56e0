package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dbprov/cmd/dbprov/handlers"
)

// Delete returns the delete command.
func Delete() *cobra.Command {
	var (
		configPath string
		wait       bool
	)

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one cluster",
		Long: `Delete removes a single cluster without a final snapshot. Dependent
resources are left in place; use destroy to sweep everything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Delete(cmd.Context(), configPath, args[0], wait)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait until the cluster is gone")

	return cmd
}
