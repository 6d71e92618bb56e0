package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/dbprov/internal/provisioning/cluster"
)

// Delete handles the delete command. Deleting a cluster that is already
// gone succeeds.
func Delete(ctx context.Context, configPath, identifier string, wait bool) error {
	pCtx, err := setup(ctx, configPath)
	if err != nil {
		return err
	}

	if err := cluster.NewProvisioner().Delete(pCtx, identifier, wait); err != nil {
		return err
	}

	if wait {
		fmt.Fprintf(stdout, "Cluster %s deleted\n", identifier)
	} else {
		fmt.Fprintf(stdout, "Deletion of cluster %s requested\n", identifier)
	}
	return nil
}
