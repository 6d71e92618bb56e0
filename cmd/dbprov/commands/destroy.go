package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dbprov/cmd/dbprov/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command sweeps every cluster visible to the credentials in
// use, then the subnet groups and managed security groups.
func Destroy() *cobra.Command {
	var (
		configPath string
		wait       bool
		output     string
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete all clusters and their dependent resources",
		Long: `Destroy deletes every database cluster visible to the credentials in
use, then tries to delete every DB subnet group and every security group
created by dbprov.

Cluster deletion is asynchronous. Subnet groups still referenced by a
deleting cluster are reported as invalid-state and left in place; run
destroy again, or pass --wait to let clusters disappear first.

Published cluster records are removed when a record bucket is configured.

WARNING: clusters are deleted without a final snapshot. This is not
limited to clusters created by dbprov.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, wait, output)
		},
	}

	addConfigFlag(cmd, &configPath)
	addOutputFlag(cmd, &output)
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for clusters to disappear before deleting dependent resources")

	return cmd
}
