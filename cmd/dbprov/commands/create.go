package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dbprov/cmd/dbprov/handlers"
)

// Create returns the create command.
func Create() *cobra.Command {
	var (
		configPath string
		ids        []string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create database clusters and wait until they are available",
		Long: `Create ensures the subnet group (and optional security group) exist,
creates one cluster per --id and blocks until every cluster is available.

Without --id the cluster identifier from the configuration is used. Several
clusters are created in parallel and share the same dependent resources.

Example:
  dbprov create -c dbprov.yaml --id itest-a --id itest-b -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), configPath, ids, output)
		},
	}

	addConfigFlag(cmd, &configPath)
	addOutputFlag(cmd, &output)
	cmd.Flags().StringSliceVar(&ids, "id", nil, "Cluster identifier to create (repeatable)")

	return cmd
}
