package cluster

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning"
	"github.com/imamik/dbprov/internal/util/retry"
)

// Status returns the cluster's current status. A cluster that cannot be
// found is reported as rds.StatusDeleted.
func (p *Provisioner) Status(ctx *provisioning.Context, identifier string) (rds.ClusterStatus, error) {
	c, err := ctx.Infra.DescribeCluster(ctx, identifier)
	if rds.IsNotFound(err) {
		return rds.StatusDeleted, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to describe cluster %s: %w", identifier, err)
	}
	return c.Status, nil
}

// AwaitStatus polls the cluster until it reports target and returns its
// identifier. Waiting for rds.StatusDeleted uses the delete timeout,
// every other target the create timeout.
//
// Every failure except cancellation is retried until the timeout, including
// describe errors. On timeout the error matches retry.ErrTimeout and wraps
// the last *WaitingForStatusError.
func (p *Provisioner) AwaitStatus(ctx *provisioning.Context, target rds.ClusterStatus, identifier string) (string, error) {
	timeout := ctx.Timeouts.ClusterCreate
	if target == rds.StatusDeleted {
		timeout = ctx.Timeouts.ClusterDelete
	}
	policy := retry.Policy{
		Description:   fmt.Sprintf("cluster %s to become %s", identifier, target),
		RetryInterval: ctx.Timeouts.ClusterPoll,
		LogInterval:   ctx.Timeouts.ClusterLog,
		Timeout:       timeout,
	}
	wait := "cluster-" + string(target)

	start := time.Now()
	id, err := retry.Poll(ctx, policy, func(c context.Context) (string, error) {
		status, err := p.Status(ctx.WithContext(c), identifier)
		if err != nil {
			return "", err
		}
		if status != target {
			return "", &WaitingForStatusError{Identifier: identifier, Expected: target, Actual: status}
		}
		return identifier, nil
	},
		retry.WithLogger(ctx.Observer),
		retry.WithAttemptHook(func(_ int, err error) { provisioning.RecordPollAttempt(wait, err) }),
	)
	if err != nil {
		return "", err
	}

	provisioning.LogStatusReached(ctx.Observer, id, string(target), time.Since(start))
	return id, nil
}
