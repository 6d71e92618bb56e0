package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/dbprov/internal/platform/rds"
)

// Record handles the record command. It prints the record published for a
// cluster when it was created.
func Record(ctx context.Context, configPath, identifier, output string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	store, err := openRecordStore(ctx, cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("record store is not configured (set record_store.bucket)")
	}

	record, err := store.Get(ctx, identifier)
	if err != nil {
		return fmt.Errorf("failed to read record for %s: %w", identifier, err)
	}
	return renderClusters(stdout, []*rds.Cluster{record}, output)
}
