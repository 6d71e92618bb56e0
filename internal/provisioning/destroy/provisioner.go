package destroy

import (
	"fmt"

	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning"
	"github.com/imamik/dbprov/internal/provisioning/cluster"
	"github.com/imamik/dbprov/internal/util/tags"
)

const phase = "destroy"

// Provisioner handles teardown of every cluster and dependent resource.
type Provisioner struct {
	records   provisioning.RecordCleaner
	wait      bool
	lifecycle *cluster.Provisioner
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithRecordCleaner removes published cluster records after the sweep.
func WithRecordCleaner(rc provisioning.RecordCleaner) Option {
	return func(p *Provisioner) {
		p.records = rc
	}
}

// WithWait makes the sweep wait for every cluster to disappear before it
// deletes dependent resources, so they are no longer referenced.
func WithWait(wait bool) Option {
	return func(p *Provisioner) {
		p.wait = wait
	}
}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner(opts ...Option) *Provisioner {
	p := &Provisioner{lifecycle: cluster.NewProvisioner()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface. Per-resource
// failures are logged; only listing failures fail the phase.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	results, err := p.Teardown(ctx)
	summary := Summary(results)
	ctx.Observer.Printf("[%s] Teardown finished: %d deleted, %d invalid-state, %d errors",
		phase, summary[OutcomeDeleted], summary[OutcomeInvalidState], summary[OutcomeError])
	return err
}

// Teardown deletes all clusters without waiting, then tries to delete every
// subnet group and managed security group. It never stops early; listing
// failures are collected in a *rds.CleanupError.
func (p *Provisioner) Teardown(ctx *provisioning.Context) ([]Result, error) {
	errs := &rds.CleanupError{}
	var results []Result

	clusters, err := p.deleteClusters(ctx, errs)
	results = append(results, clusters...)

	if p.wait && err == nil {
		p.awaitClusters(ctx, clusters, errs)
	}

	results = append(results, p.deleteSubnetGroups(ctx, errs)...)
	results = append(results, p.deleteSecurityGroups(ctx, errs)...)

	if p.records != nil {
		n, err := p.records.DeleteAll(ctx)
		if err != nil {
			errs.Add(fmt.Errorf("failed to delete cluster records: %w", err))
		} else {
			ctx.Observer.Printf("[%s] Deleted %d cluster records", phase, n)
		}
	}

	return results, errs.ErrOrNil()
}

func (p *Provisioner) deleteClusters(ctx *provisioning.Context, errs *rds.CleanupError) ([]Result, error) {
	clusters, err := ctx.Infra.ListClusters(ctx)
	if err != nil {
		err = fmt.Errorf("failed to list clusters: %w", err)
		errs.Add(err)
		return nil, err
	}

	results := make([]Result, 0, len(clusters))
	for i, c := range clusters {
		provisioning.LogResourceDeleting(ctx.Observer, phase, "cluster", c.Identifier)
		results = append(results, p.record(ctx, KindCluster, c.Identifier, ctx.Infra.DeleteCluster(ctx, c.Identifier)))
		ctx.Observer.Progress(phase+"/clusters", i+1, len(clusters))
	}
	return results, nil
}

// awaitClusters waits for every cluster whose delete was accepted or is
// already in progress.
func (p *Provisioner) awaitClusters(ctx *provisioning.Context, results []Result, errs *rds.CleanupError) {
	for _, r := range results {
		if r.Outcome == OutcomeError {
			continue
		}
		if _, err := p.lifecycle.AwaitStatus(ctx, rds.StatusDeleted, r.Identifier); err != nil {
			errs.Add(fmt.Errorf("cluster %s was not deleted: %w", r.Identifier, err))
		}
	}
}

func (p *Provisioner) deleteSubnetGroups(ctx *provisioning.Context, errs *rds.CleanupError) []Result {
	groups, err := ctx.Infra.ListSubnetGroups(ctx)
	if err != nil {
		errs.Add(fmt.Errorf("failed to list subnet groups: %w", err))
		return nil
	}

	results := make([]Result, 0, len(groups))
	for i, g := range groups {
		provisioning.LogResourceDeleting(ctx.Observer, phase, "subnet group", g.Name)
		results = append(results, p.record(ctx, KindSubnetGroup, g.Name, ctx.Infra.DeleteSubnetGroup(ctx, g.Name)))
		ctx.Observer.Progress(phase+"/subnet-groups", i+1, len(groups))
	}
	return results
}

func (p *Provisioner) deleteSecurityGroups(ctx *provisioning.Context, errs *rds.CleanupError) []Result {
	groups, err := ctx.Infra.ListSecurityGroups(ctx, tags.Managed())
	if err != nil {
		errs.Add(fmt.Errorf("failed to list security groups: %w", err))
		return nil
	}

	results := make([]Result, 0, len(groups))
	for i, sg := range groups {
		provisioning.LogResourceDeleting(ctx.Observer, phase, "security group", sg.ID)
		results = append(results, p.record(ctx, KindSecurityGroup, sg.ID, ctx.Infra.DeleteSecurityGroup(ctx, sg.ID)))
		ctx.Observer.Progress(phase+"/security-groups", i+1, len(groups))
	}
	return results
}

// record classifies a delete error, logs it and counts it.
func (p *Provisioner) record(ctx *provisioning.Context, kind, id string, err error) Result {
	outcome := classify(err)
	switch outcome {
	case OutcomeDeleted:
		provisioning.LogResourceDeleted(ctx.Observer, phase, kind, id)
		err = nil
	case OutcomeInvalidState:
		provisioning.LogResourceSkipped(ctx.Observer, phase, kind, id, "still in use")
	default:
		provisioning.LogResourceFailed(ctx.Observer, phase, kind, id, err)
	}
	provisioning.RecordTeardown(kind, string(outcome))
	return Result{Kind: kind, Identifier: id, Outcome: outcome, Err: err}
}
