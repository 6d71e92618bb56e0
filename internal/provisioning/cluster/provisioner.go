package cluster

import (
	"context"
	"time"

	"github.com/imamik/dbprov/internal/platform/dbprobe"
	"github.com/imamik/dbprov/internal/provisioning"
	"github.com/imamik/dbprov/internal/provisioning/infrastructure"
)

const phase = "cluster"

// PingFunc checks that a database accepts an authenticated connection.
type PingFunc func(ctx context.Context, target dbprobe.Target, timeout time.Duration) error

// Provisioner handles cluster lifecycle operations (create, wait, delete).
type Provisioner struct {
	infra provisioning.Phase
	ping  PingFunc
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithInfrastructure replaces the phase that ensures dependent resources
// before the first create.
func WithInfrastructure(p provisioning.Phase) Option {
	return func(pr *Provisioner) {
		pr.infra = p
	}
}

// WithPing replaces the postgres connectivity check.
func WithPing(fn PingFunc) Option {
	return func(pr *Provisioner) {
		pr.ping = fn
	}
}

// NewProvisioner creates a new cluster provisioner.
func NewProvisioner(opts ...Option) *Provisioner {
	p := &Provisioner{
		infra: infrastructure.NewProvisioner(),
		ping:  dbprobe.PingPostgres,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface by creating the
// configured cluster.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	_, err := p.Create(ctx, ctx.Config.Cluster)
	return err
}
