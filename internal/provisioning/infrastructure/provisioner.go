package infrastructure

import (
	"fmt"

	"github.com/imamik/dbprov/internal/provisioning"
)

const phase = "infrastructure"

// Provisioner handles infrastructure provisioning (subnet group, security group).
type Provisioner struct{}

// NewProvisioner creates a new infrastructure provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	// 1. Default VPC
	network, err := ctx.Infra.DefaultNetwork(ctx)
	if err != nil {
		return fmt.Errorf("failed to look up default network: %w", err)
	}
	if len(network.SubnetIDs) == 0 {
		return fmt.Errorf("default VPC %s has no subnets", network.VPCID)
	}
	ctx.Observer.Printf("[%s] Using default VPC %s with %d subnets", phase, network.VPCID, len(network.SubnetIDs))

	infra := provisioning.Infrastructure{Network: network}

	// 2. Subnet group
	infra.SubnetGroup, err = p.EnsureSubnetGroup(ctx, network)
	if err != nil {
		return err
	}

	// 3. Security group
	if ctx.Config.Network.SecurityGroup.Enabled {
		infra.SecurityGroup, infra.PublicIP, err = p.EnsureSecurityGroup(ctx, network)
		if err != nil {
			return err
		}
	}

	ctx.State.SetInfrastructure(infra)
	return nil
}
