package cluster

import (
	"fmt"

	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning"
)

// Delete requests deletion of one cluster without a final snapshot. A
// cluster that does not exist counts as deleted. With wait set it blocks
// until the cluster is gone.
func (p *Provisioner) Delete(ctx *provisioning.Context, identifier string, wait bool) error {
	provisioning.LogResourceDeleting(ctx.Observer, phase, "cluster", identifier)

	err := ctx.Infra.DeleteCluster(ctx, identifier)
	switch {
	case rds.IsNotFound(err):
		ctx.Observer.Printf("[%s] Cluster %s does not exist", phase, identifier)
		return nil
	case err != nil:
		return fmt.Errorf("failed to delete cluster %s: %w", identifier, err)
	}

	if wait {
		if _, err := p.AwaitStatus(ctx, rds.StatusDeleted, identifier); err != nil {
			return fmt.Errorf("cluster %s was not deleted: %w", identifier, err)
		}
	}
	provisioning.LogResourceDeleted(ctx.Observer, phase, "cluster", identifier)
	return nil
}
