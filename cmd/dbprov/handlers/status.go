package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/dbprov/internal/platform/rds"
)

// Status handles the status command. A cluster that cannot be found is
// shown with status deleted.
func Status(ctx context.Context, configPath, identifier, output string) error {
	pCtx, err := setup(ctx, configPath)
	if err != nil {
		return err
	}

	observed, err := pCtx.Infra.DescribeCluster(pCtx, identifier)
	if rds.IsNotFound(err) {
		observed = &rds.Cluster{Identifier: identifier, Status: rds.StatusDeleted}
	} else if err != nil {
		return fmt.Errorf("failed to describe cluster %s: %w", identifier, err)
	}

	return renderClusters(stdout, []*rds.Cluster{observed}, output)
}
