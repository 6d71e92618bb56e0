package infrastructure

import (
	"context"

	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning"
	"github.com/imamik/dbprov/internal/util/naming"
	"github.com/imamik/dbprov/internal/util/tags"
)

// EnsureSubnetGroup returns the configured DB subnet group, creating it over
// every subnet of the network when it does not exist.
func (p *Provisioner) EnsureSubnetGroup(ctx *provisioning.Context, network *rds.Network) (*rds.SubnetGroup, error) {
	name := ctx.Config.Network.SubnetGroup
	created := false

	group, err := (&rds.EnsureOperation[*rds.SubnetGroup]{
		Name:         name,
		ResourceType: "subnet group",
		Describe:     ctx.Infra.DescribeSubnetGroup,
		Create: func(c context.Context, name string) (*rds.SubnetGroup, error) {
			provisioning.LogResourceCreating(ctx.Observer, phase, "subnet group", name)
			return ctx.Infra.CreateSubnetGroup(c, rds.CreateSubnetGroupRequest{
				Name:        name,
				Description: naming.SubnetGroupDescription(name),
				SubnetIDs:   network.SubnetIDs,
				Tags: tags.NewBuilder().
					WithComponent(tags.ComponentSubnetGroup).
					WithTestIDIfSet(ctx.Config.TestID).
					Build(),
			})
		},
		OnCreate: func(*rds.SubnetGroup) { created = true },
	}).Execute(ctx)
	if err != nil {
		return nil, err
	}

	if created {
		provisioning.LogResourceCreated(ctx.Observer, phase, "subnet group", group.Name, group.Name)
	} else {
		provisioning.LogResourceExists(ctx.Observer, phase, "subnet group", group.Name, group.Name)
	}
	return group, nil
}
