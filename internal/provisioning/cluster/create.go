package cluster

import (
	"fmt"
	"maps"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/imamik/dbprov/internal/config"
	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning"
	"github.com/imamik/dbprov/internal/util/tags"
)

// Create provisions a cluster from spec and blocks until it is available.
//
// Dependent infrastructure is ensured first unless the context already holds
// it. The returned record merges the spec with the observed cluster and
// carries the master password. When the wait times out the cluster is left
// in place for the caller to tear down. A spec without a subnet group is
// placed into the ensured one.
func (p *Provisioner) Create(ctx *provisioning.Context, spec config.ClusterSpec) (*rds.Cluster, error) {
	namedSubnetGroup := spec.SubnetGroup != ""
	if !namedSubnetGroup && ctx.Config.Network.SubnetGroup != "" {
		spec.SubnetGroup = ctx.Config.Network.SubnetGroup
	}
	spec = spec.WithDefaults()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cluster spec: %w", err)
	}

	if _, ok := ctx.State.Infrastructure(); !ok {
		if err := p.infra.Provision(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure infrastructure: %w", err)
		}
	}
	infra, _ := ctx.State.Infrastructure()
	if !namedSubnetGroup && infra.SubnetGroup != nil {
		spec.SubnetGroup = infra.SubnetGroup.Name
	}

	observer := ctx.Observer.WithFields(map[string]string{"cluster": spec.Identifier})
	provisioning.LogResourceCreating(observer, phase, "cluster", spec.Identifier)

	start := time.Now()
	if _, err := ctx.Infra.CreateCluster(ctx, p.buildRequest(ctx, spec, infra)); err != nil {
		provisioning.RecordClusterCreate(spec.Engine, time.Since(start), err)
		return nil, fmt.Errorf("failed to create cluster %s: %w", spec.Identifier, err)
	}

	if _, err := p.AwaitStatus(ctx, rds.StatusAvailable, spec.Identifier); err != nil {
		provisioning.RecordClusterCreate(spec.Engine, time.Since(start), err)
		return nil, fmt.Errorf("cluster %s did not become available: %w", spec.Identifier, err)
	}
	provisioning.RecordClusterCreate(spec.Engine, time.Since(start), nil)

	observed, err := ctx.Infra.DescribeCluster(ctx, spec.Identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to describe cluster %s: %w", spec.Identifier, err)
	}
	record := mergeRecord(spec, observed)
	ctx.State.RecordCluster(record)
	provisioning.LogResourceCreated(observer, phase, "cluster", record.Identifier, record.ARN)

	if ctx.Config.WaitForConnection {
		if err := p.WaitConnectable(ctx, record); err != nil {
			return record, err
		}
	}
	return record, nil
}

func (p *Provisioner) buildRequest(ctx *provisioning.Context, spec config.ClusterSpec, infra provisioning.Infrastructure) rds.CreateClusterRequest {
	req := rds.CreateClusterRequest{
		Identifier:         spec.Identifier,
		Engine:             spec.Engine,
		AllocatedStorage:   aws.Int32(spec.AllocatedStorage),
		StorageType:        aws.String(spec.StorageType),
		InstanceClass:      aws.String(spec.InstanceClass),
		SubnetGroup:        aws.String(spec.SubnetGroup),
		Port:               aws.Int32(spec.Port),
		MasterUsername:     spec.MasterUsername,
		MasterPassword:     spec.MasterPassword,
		PubliclyAccessible: aws.Bool(spec.IsPubliclyAccessible()),
		Tags: tags.NewBuilder().
			WithComponent(tags.ComponentCluster).
			WithCluster(spec.Identifier).
			WithTestIDIfSet(ctx.Config.TestID).
			Merge(spec.Tags).
			Build(),
	}
	if spec.EngineVersion != "" {
		req.EngineVersion = aws.String(spec.EngineVersion)
	}
	if spec.IOPS > 0 {
		req.IOPS = aws.Int32(spec.IOPS)
	}
	if spec.DatabaseName != "" {
		req.DatabaseName = aws.String(spec.DatabaseName)
	}
	if infra.SecurityGroup != nil {
		req.SecurityGroupIDs = []string{infra.SecurityGroup.ID}
	}
	return req
}

// mergeRecord fills the fields the provider left empty from the spec and
// attaches the master password, which the provider never returns.
func mergeRecord(spec config.ClusterSpec, observed *rds.Cluster) *rds.Cluster {
	out := *observed
	out.MasterPassword = spec.MasterPassword
	if out.Engine == "" {
		out.Engine = spec.Engine
	}
	if out.EngineVersion == "" {
		out.EngineVersion = spec.EngineVersion
	}
	if out.Port == 0 {
		out.Port = spec.Port
	}
	if out.MasterUsername == "" {
		out.MasterUsername = spec.MasterUsername
	}
	if out.DatabaseName == "" {
		out.DatabaseName = spec.DatabaseName
	}
	if out.InstanceClass == "" {
		out.InstanceClass = spec.InstanceClass
	}
	if out.StorageType == "" {
		out.StorageType = spec.StorageType
	}
	if out.AllocatedStorage == 0 {
		out.AllocatedStorage = spec.AllocatedStorage
	}
	if out.IOPS == 0 {
		out.IOPS = spec.IOPS
	}
	if out.SubnetGroup == "" {
		out.SubnetGroup = spec.SubnetGroup
	}
	out.SecurityGroupIDs = append([]string(nil), observed.SecurityGroupIDs...)
	out.Tags = maps.Clone(observed.Tags)
	return &out
}
