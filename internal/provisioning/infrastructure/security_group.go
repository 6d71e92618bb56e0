package infrastructure

import (
	"context"
	"fmt"

	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning"
	"github.com/imamik/dbprov/internal/util/tags"
)

// EnsureSecurityGroup returns the configured security group, creating it in
// the network's VPC when needed, and authorizes the cluster port for the
// caller's public IP and every allowed CIDR. It also returns the public IP
// CIDR it authorized, if any.
func (p *Provisioner) EnsureSecurityGroup(ctx *provisioning.Context, network *rds.Network) (*rds.SecurityGroup, string, error) {
	sgCfg := ctx.Config.Network.SecurityGroup
	created := false

	sg, err := (&rds.EnsureOperation[*rds.SecurityGroup]{
		Name:         sgCfg.Name,
		ResourceType: "security group",
		Describe: func(c context.Context, name string) (*rds.SecurityGroup, error) {
			return ctx.Infra.DescribeSecurityGroup(c, network.VPCID, name)
		},
		Create: func(c context.Context, name string) (*rds.SecurityGroup, error) {
			provisioning.LogResourceCreating(ctx.Observer, phase, "security group", name)
			return ctx.Infra.CreateSecurityGroup(c, rds.CreateSecurityGroupRequest{
				Name:        name,
				Description: "Database access for dbprov test runs",
				VPCID:       network.VPCID,
				Tags: tags.NewBuilder().
					WithComponent(tags.ComponentSecurityGroup).
					WithTestIDIfSet(ctx.Config.TestID).
					Build(),
			})
		},
		OnCreate: func(*rds.SecurityGroup) { created = true },
	}).Execute(ctx)
	if err != nil {
		return nil, "", err
	}

	if created {
		provisioning.LogResourceCreated(ctx.Observer, phase, "security group", sg.Name, sg.ID)
	} else {
		provisioning.LogResourceExists(ctx.Observer, phase, "security group", sg.Name, sg.ID)
	}

	var sources []string
	var publicIP string
	if sgCfg.AuthorizePublicIP {
		publicIP, err = ctx.PublicIP.CIDR(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("failed to determine public IP: %w", err)
		}
		sources = append(sources, publicIP)
	}
	sources = append(sources, sgCfg.AllowedCIDRs...)

	port := ctx.Config.Cluster.Port
	for _, cidr := range sources {
		if err := ctx.Infra.AuthorizeIngress(ctx, sg.ID, port, cidr); err != nil {
			return nil, "", fmt.Errorf("failed to authorize %s on port %d for security group %s: %w", cidr, port, sg.ID, err)
		}
		ctx.Observer.Printf("[%s] Authorized %s on port %d for security group %s", phase, cidr, port, sg.ID)
	}

	return sg, publicIP, nil
}
