package rds

import (
	"context"

	"github.com/imamik/dbprov/internal/util/retry"
)

// invoke runs one control-plane call and normalizes its failure. Throttling
// faults are retried with exponential backoff; every other failure is
// returned on the first attempt.
func invoke[T any](ctx context.Context, c *Client, op string, call func(context.Context) (T, error)) (T, error) {
	var out T
	err := retry.WithExponentialBackoff(ctx, func() error {
		res, err := call(ctx)
		if err != nil {
			err = normalize(op, err)
			if isThrottling(err) {
				return err
			}
			return retry.Fatal(err)
		}
		out = res
		return nil
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
