package cluster

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/dbprov/internal/platform/dbprobe"
	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning"
	"github.com/imamik/dbprov/internal/util/netutil"
	"github.com/imamik/dbprov/internal/util/retry"
)

// WaitConnectable blocks until the cluster's writer endpoint accepts
// connections. Postgres clusters must accept an authenticated ping with the
// record's credentials; other engines only need an open TCP port.
func (p *Provisioner) WaitConnectable(ctx *provisioning.Context, record *rds.Cluster) error {
	if record.Endpoint == "" || record.Port == 0 {
		return fmt.Errorf("cluster %s has no writer endpoint", record.Identifier)
	}
	ctx.Observer.Printf("[%s] Waiting for %s:%d to accept connections...", phase, record.Endpoint, record.Port)

	if !strings.Contains(record.Engine, "postgres") {
		if err := netutil.WaitForPort(ctx, record.Endpoint, int(record.Port),
			ctx.Timeouts.ConnectPoll, ctx.Timeouts.Connect, ctx.Observer); err != nil {
			return fmt.Errorf("cluster %s is not reachable: %w", record.Identifier, err)
		}
		return nil
	}

	target := dbprobe.Target{
		Host:     record.Endpoint,
		Port:     record.Port,
		User:     record.MasterUsername,
		Password: record.MasterPassword,
		Database: record.DatabaseName,
	}
	_, err := retry.Poll(ctx, retry.Policy{
		Description:   fmt.Sprintf("cluster %s to accept connections", record.Identifier),
		RetryInterval: ctx.Timeouts.ConnectPoll,
		LogInterval:   ctx.Timeouts.ClusterLog,
		Timeout:       ctx.Timeouts.Connect,
	}, func(c context.Context) (struct{}, error) {
		return struct{}{}, p.ping(c, target, netutil.DialTimeout)
	},
		retry.WithLogger(ctx.Observer),
		retry.WithAttemptHook(func(_ int, err error) { provisioning.RecordPollAttempt("connect", err) }),
	)
	if err != nil {
		return fmt.Errorf("cluster %s does not accept connections: %w", record.Identifier, err)
	}
	return nil
}
