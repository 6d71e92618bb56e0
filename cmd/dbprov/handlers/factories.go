package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/imamik/dbprov/internal/config"
	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/platform/s3"
	"github.com/imamik/dbprov/internal/provisioning"
)

// recordStore is what the handlers need from the record bucket.
type recordStore interface {
	provisioning.RecordPublisher
	provisioning.RecordCleaner
	Ensure(ctx context.Context) error
	Get(ctx context.Context, identifier string) (*rds.Cluster, error)
	Bucket() string
}

// Factory function variables - can be replaced in tests.
var (
	// loadConfig reads the configuration file and environment.
	loadConfig = config.Load

	// newControlPlane creates the AWS control-plane client.
	newControlPlane = func(ctx context.Context, cfg *config.Config) (rds.ControlPlane, error) {
		return rds.NewClient(ctx, cfg, rds.WithTimeouts(config.LoadTimeouts()))
	}

	// newRecordStore creates the S3 record store.
	newRecordStore = func(ctx context.Context, cfg *config.Config) (recordStore, error) {
		client, err := s3.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s3.NewRecordStore(client, cfg.RecordStore.Bucket, cfg.RecordStore.Prefix), nil
	}

	// newProvisioningContext creates a new provisioning context.
	newProvisioningContext = provisioning.NewContext

	// stdout receives command output.
	stdout io.Writer = os.Stdout
)

// setup loads the configuration and builds a provisioning context for it.
func setup(ctx context.Context, configPath string) (*provisioning.Context, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	infra, err := newControlPlane(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client: %w", err)
	}

	pCtx := newProvisioningContext(ctx, cfg, infra)
	pCtx.Observer = pCtx.Observer.WithFields(map[string]string{"test_id": cfg.TestID})
	return pCtx, nil
}

// openRecordStore returns the configured record store, or nil when
// publishing is disabled.
func openRecordStore(ctx context.Context, cfg *config.Config) (recordStore, error) {
	if !cfg.RecordStore.Enabled() {
		return nil, nil
	}
	store, err := newRecordStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create record store: %w", err)
	}
	return store, nil
}

// WriteMetrics writes the provisioning metrics to path.
func WriteMetrics(path string) error {
	if err := provisioning.WriteMetrics(path); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
