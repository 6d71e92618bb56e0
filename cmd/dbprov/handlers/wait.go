package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning/cluster"
)

// Wait handles the wait command.
func Wait(ctx context.Context, configPath, identifier, target string) error {
	status := rds.ClusterStatus(target)
	if status != rds.StatusAvailable && status != rds.StatusDeleted {
		return fmt.Errorf("unsupported wait target %q (must be %s or %s)", target, rds.StatusAvailable, rds.StatusDeleted)
	}

	pCtx, err := setup(ctx, configPath)
	if err != nil {
		return err
	}

	id, err := cluster.NewProvisioner().AwaitStatus(pCtx, status, identifier)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Cluster %s is %s\n", id, status)
	return nil
}
