package handlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning"
	"github.com/imamik/dbprov/internal/provisioning/cluster"
	"github.com/imamik/dbprov/internal/provisioning/infrastructure"
	"github.com/imamik/dbprov/internal/util/async"
)

// Create handles the create command.
//
// It ensures the dependent infrastructure once, then creates every
// requested cluster in parallel and waits until each is available. Created
// records are published when a record bucket is configured and printed in
// the requested format.
func Create(ctx context.Context, configPath string, ids []string, output string) error {
	pCtx, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	cfg := pCtx.Config

	if len(ids) == 0 {
		ids = []string{cfg.Cluster.Identifier}
	}

	store, err := openRecordStore(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		if err := store.Ensure(ctx); err != nil {
			return fmt.Errorf("failed to ensure record bucket %s: %w", store.Bucket(), err)
		}
	}

	if err := provisioning.RunPhases(pCtx, []provisioning.Phase{infrastructure.NewProvisioner()}); err != nil {
		return err
	}

	lifecycle := cluster.NewProvisioner()
	var (
		mu      sync.Mutex
		created []*rds.Cluster
	)
	tasks := make([]async.Task, 0, len(ids))
	for _, id := range ids {
		spec := cfg.Cluster
		spec.Identifier = id
		if spec.PasswordGenerated {
			// Regenerated per cluster by Create.
			spec.MasterPassword = ""
		}
		tasks = append(tasks, async.Task{
			Name: id,
			Func: func(taskCtx context.Context) error {
				record, err := lifecycle.Create(pCtx.WithContext(taskCtx), spec)
				if err != nil {
					return err
				}
				mu.Lock()
				created = append(created, record)
				mu.Unlock()
				return nil
			},
		})
	}
	createErr := async.RunParallel(ctx, tasks, false)

	if store != nil && len(created) > 0 {
		if err := cluster.NewPublisher(store).Provision(pCtx); err != nil {
			return err
		}
	}

	if len(created) > 0 {
		if err := renderClusters(stdout, pCtx.State.Clusters(), output); err != nil {
			return err
		}
	}
	if createErr != nil {
		return fmt.Errorf("create failed: %w", createErr)
	}
	return nil
}
