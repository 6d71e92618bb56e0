package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/dbprov/internal/provisioning/destroy"
)

// Destroy handles the destroy command.
//
// It tears down every cluster, subnet group and managed security group the
// credentials can see, plus the published records. Individual failures do
// not stop the teardown; the per-resource results are always printed first.
// Resources still in use are not failures, any other failed deletion is.
func Destroy(ctx context.Context, configPath string, wait bool, output string) error {
	pCtx, err := setup(ctx, configPath)
	if err != nil {
		return err
	}

	opts := []destroy.Option{destroy.WithWait(wait)}
	store, err := openRecordStore(ctx, pCtx.Config)
	if err != nil {
		return err
	}
	if store != nil {
		opts = append(opts, destroy.WithRecordCleaner(store))
	}

	results, teardownErr := destroy.NewProvisioner(opts...).Teardown(pCtx)
	if err := renderResults(stdout, results, output); err != nil {
		return err
	}
	if teardownErr != nil {
		return teardownErr
	}
	if n := destroy.Summary(results)[destroy.OutcomeError]; n > 0 {
		return fmt.Errorf("teardown finished with %d failed deletions", n)
	}
	return nil
}
