package infrastructure

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning"
	testutil "github.com/imamik/dbprov/internal/testing"
	"github.com/imamik/dbprov/internal/util/tags"
)

func TestProvisioner_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "infrastructure", NewProvisioner().Name())
}

func TestProvision_CreatesSubnetGroup(t *testing.T) {
	t.Parallel()
	fake := testutil.NewFakeControlPlane()
	cfg := testutil.NewConfigBuilder().WithTestID("t1").Build()
	ctx := testutil.NewContext(t, cfg, fake)

	require.NoError(t, NewProvisioner().Provision(ctx))

	infra, ok := ctx.State.Infrastructure()
	require.True(t, ok)
	assert.Equal(t, "vpc-fake", infra.Network.VPCID)
	assert.Equal(t, "dbprov-subnets", infra.SubnetGroup.Name)
	assert.Equal(t, []string{"subnet-a", "subnet-b", "subnet-c"}, infra.SubnetGroup.SubnetIDs)
	assert.Nil(t, infra.SecurityGroup)
	assert.Empty(t, infra.PublicIP)
	assert.Equal(t, 1, fake.Calls("CreateSubnetGroup"))
	assert.Zero(t, fake.Calls("DescribeSecurityGroup"))

	created := testutil.Observer(ctx).EventsOfType(provisioning.EventResourceCreated)
	require.Len(t, created, 1)
	assert.Equal(t, "dbprov-subnets", created[0].Resource)
}

func TestProvision_Idempotent(t *testing.T) {
	t.Parallel()
	fake := testutil.NewFakeControlPlane()
	cfg := testutil.NewConfigBuilder().WithSecurityGroup(true).Build()

	require.NoError(t, NewProvisioner().Provision(testutil.NewContext(t, cfg, fake)))
	second := testutil.NewContext(t, cfg, fake)
	require.NoError(t, NewProvisioner().Provision(second))

	assert.Equal(t, 1, fake.Calls("CreateSubnetGroup"))
	assert.Equal(t, 1, fake.Calls("CreateSecurityGroup"))
	assert.Equal(t, 1, fake.SecurityGroupCount())

	infra, ok := second.State.Infrastructure()
	require.True(t, ok)
	assert.Equal(t, []string{"5432/203.0.113.10/32"}, fake.Ingress(infra.SecurityGroup.ID))
	assert.Len(t, testutil.Observer(second).EventsOfType(provisioning.EventResourceExists), 2)
}

func TestProvision_SecurityGroup(t *testing.T) {
	t.Parallel()
	fake := testutil.NewFakeControlPlane()
	cfg := testutil.NewConfigBuilder().
		WithTestID("t2").
		WithEngine("mysql").
		WithSecurityGroup(true, "10.0.0.0/8").
		Build()
	ctx := testutil.NewContext(t, cfg, fake)

	require.NoError(t, NewProvisioner().Provision(ctx))

	infra, ok := ctx.State.Infrastructure()
	require.True(t, ok)
	require.NotNil(t, infra.SecurityGroup)
	assert.Equal(t, "dbprov-subnets-access", infra.SecurityGroup.Name)
	assert.Equal(t, "vpc-fake", infra.SecurityGroup.VPCID)
	assert.Equal(t, "203.0.113.10/32", infra.PublicIP)
	assert.Equal(t, tags.ManagedByDBProv, infra.SecurityGroup.Tags[tags.KeyManagedBy])
	assert.Equal(t, "t2", infra.SecurityGroup.Tags[tags.KeyTestID])
	assert.Equal(t, []string{"3306/203.0.113.10/32", "3306/10.0.0.0/8"}, fake.Ingress(infra.SecurityGroup.ID))
}

func TestProvision_SecurityGroupWithoutPublicIP(t *testing.T) {
	t.Parallel()
	fake := testutil.NewFakeControlPlane()
	cfg := testutil.NewConfigBuilder().WithSecurityGroup(false).Build()
	ctx := testutil.NewContext(t, cfg, fake)
	ctx.PublicIP = testutil.FailingPublicIP{Err: errors.New("must not be called")}

	require.NoError(t, NewProvisioner().Provision(ctx))

	infra, _ := ctx.State.Infrastructure()
	assert.Empty(t, fake.Ingress(infra.SecurityGroup.ID))
	assert.Empty(t, infra.PublicIP)
}

func TestProvision_Errors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	tests := []struct {
		name    string
		setup   func(*testutil.FakeControlPlane, *provisioning.Context)
		wantErr string
	}{
		{
			name: "default network lookup fails",
			setup: func(f *testutil.FakeControlPlane, _ *provisioning.Context) {
				f.NetworkErr = boom
			},
			wantErr: "failed to look up default network",
		},
		{
			name: "default VPC without subnets",
			setup: func(f *testutil.FakeControlPlane, _ *provisioning.Context) {
				f.Network = &rds.Network{VPCID: "vpc-empty"}
			},
			wantErr: "default VPC vpc-empty has no subnets",
		},
		{
			name: "public IP lookup fails",
			setup: func(_ *testutil.FakeControlPlane, ctx *provisioning.Context) {
				ctx.Config.Network.SecurityGroup.Enabled = true
				ctx.Config.Network.SecurityGroup.AuthorizePublicIP = true
				ctx.PublicIP = testutil.FailingPublicIP{Err: boom}
			},
			wantErr: "failed to determine public IP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fake := testutil.NewFakeControlPlane()
			ctx := testutil.NewContext(t, testutil.NewConfigBuilder().Build(), fake)
			tt.setup(fake, ctx)

			err := NewProvisioner().Provision(ctx)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			_, ok := ctx.State.Infrastructure()
			assert.False(t, ok)
		})
	}
}

func TestEnsureSubnetGroup_DescribeFailure(t *testing.T) {
	t.Parallel()
	denied := testutil.ProviderFault("DescribeDBSubnetGroups", "AccessDenied")
	mock := &rds.MockClient{
		DescribeSubnetGroupFunc: func(context.Context, string) (*rds.SubnetGroup, error) {
			return nil, denied
		},
		CreateSubnetGroupFunc: func(context.Context, rds.CreateSubnetGroupRequest) (*rds.SubnetGroup, error) {
			t.Fatal("create must not be attempted when describe fails for another reason")
			return nil, nil
		},
	}
	ctx := testutil.NewContext(t, testutil.NewConfigBuilder().Build(), mock)

	_, err := NewProvisioner().EnsureSubnetGroup(ctx, &rds.Network{VPCID: "vpc-1", SubnetIDs: []string{"s"}})

	require.Error(t, err)
	assert.Same(t, denied, err)
}
