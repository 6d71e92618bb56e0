package rds

import (
	"context"
)

// MockClient is a mock implementation of ControlPlane.
type MockClient struct {
	// Cluster
	DescribeClusterFunc func(ctx context.Context, identifier string) (*Cluster, error)
	CreateClusterFunc   func(ctx context.Context, req CreateClusterRequest) (*Cluster, error)
	DeleteClusterFunc   func(ctx context.Context, identifier string) error
	ListClustersFunc    func(ctx context.Context) ([]*Cluster, error)

	// SubnetGroup
	DescribeSubnetGroupFunc func(ctx context.Context, name string) (*SubnetGroup, error)
	CreateSubnetGroupFunc   func(ctx context.Context, req CreateSubnetGroupRequest) (*SubnetGroup, error)
	DeleteSubnetGroupFunc   func(ctx context.Context, name string) error
	ListSubnetGroupsFunc    func(ctx context.Context) ([]*SubnetGroup, error)

	// Network
	DefaultNetworkFunc func(ctx context.Context) (*Network, error)

	// SecurityGroup
	DescribeSecurityGroupFunc func(ctx context.Context, vpcID, name string) (*SecurityGroup, error)
	CreateSecurityGroupFunc   func(ctx context.Context, req CreateSecurityGroupRequest) (*SecurityGroup, error)
	AuthorizeIngressFunc      func(ctx context.Context, groupID string, port int32, cidr string) error
	DeleteSecurityGroupFunc   func(ctx context.Context, groupID string) error
	ListSecurityGroupsFunc    func(ctx context.Context, tags map[string]string) ([]*SecurityGroup, error)
}

// Ensure interface compliance
var _ ControlPlane = (*MockClient)(nil)

// DescribeCluster mocks cluster lookup. Defaults to an available cluster.
func (m *MockClient) DescribeCluster(ctx context.Context, identifier string) (*Cluster, error) {
	if m.DescribeClusterFunc != nil {
		return m.DescribeClusterFunc(ctx, identifier)
	}
	return &Cluster{
		Identifier:     identifier,
		Status:         StatusAvailable,
		Endpoint:       identifier + ".cluster-mock.rds.amazonaws.com",
		ReaderEndpoint: identifier + ".cluster-ro-mock.rds.amazonaws.com",
		Port:           5432,
	}, nil
}

// CreateCluster mocks cluster creation.
func (m *MockClient) CreateCluster(ctx context.Context, req CreateClusterRequest) (*Cluster, error) {
	if m.CreateClusterFunc != nil {
		return m.CreateClusterFunc(ctx, req)
	}
	return &Cluster{Identifier: req.Identifier, Status: StatusCreating, Engine: req.Engine}, nil
}

// DeleteCluster mocks cluster deletion.
func (m *MockClient) DeleteCluster(ctx context.Context, identifier string) error {
	if m.DeleteClusterFunc != nil {
		return m.DeleteClusterFunc(ctx, identifier)
	}
	return nil
}

// ListClusters mocks cluster listing.
func (m *MockClient) ListClusters(ctx context.Context) ([]*Cluster, error) {
	if m.ListClustersFunc != nil {
		return m.ListClustersFunc(ctx)
	}
	return nil, nil
}

// DescribeSubnetGroup mocks subnet group lookup. Defaults to an existing group.
func (m *MockClient) DescribeSubnetGroup(ctx context.Context, name string) (*SubnetGroup, error) {
	if m.DescribeSubnetGroupFunc != nil {
		return m.DescribeSubnetGroupFunc(ctx, name)
	}
	return &SubnetGroup{Name: name, VPCID: "vpc-mock", Status: "Complete"}, nil
}

// CreateSubnetGroup mocks subnet group creation.
func (m *MockClient) CreateSubnetGroup(ctx context.Context, req CreateSubnetGroupRequest) (*SubnetGroup, error) {
	if m.CreateSubnetGroupFunc != nil {
		return m.CreateSubnetGroupFunc(ctx, req)
	}
	return &SubnetGroup{Name: req.Name, Description: req.Description, SubnetIDs: req.SubnetIDs}, nil
}

// DeleteSubnetGroup mocks subnet group deletion.
func (m *MockClient) DeleteSubnetGroup(ctx context.Context, name string) error {
	if m.DeleteSubnetGroupFunc != nil {
		return m.DeleteSubnetGroupFunc(ctx, name)
	}
	return nil
}

// ListSubnetGroups mocks subnet group listing.
func (m *MockClient) ListSubnetGroups(ctx context.Context) ([]*SubnetGroup, error) {
	if m.ListSubnetGroupsFunc != nil {
		return m.ListSubnetGroupsFunc(ctx)
	}
	return nil, nil
}

// DefaultNetwork mocks default VPC discovery.
func (m *MockClient) DefaultNetwork(ctx context.Context) (*Network, error) {
	if m.DefaultNetworkFunc != nil {
		return m.DefaultNetworkFunc(ctx)
	}
	return &Network{VPCID: "vpc-mock", SubnetIDs: []string{"subnet-a", "subnet-b", "subnet-c"}}, nil
}

// DescribeSecurityGroup mocks security group lookup. Defaults to an existing group.
func (m *MockClient) DescribeSecurityGroup(ctx context.Context, vpcID, name string) (*SecurityGroup, error) {
	if m.DescribeSecurityGroupFunc != nil {
		return m.DescribeSecurityGroupFunc(ctx, vpcID, name)
	}
	return &SecurityGroup{ID: "sg-mock", Name: name, VPCID: vpcID}, nil
}

// CreateSecurityGroup mocks security group creation.
func (m *MockClient) CreateSecurityGroup(ctx context.Context, req CreateSecurityGroupRequest) (*SecurityGroup, error) {
	if m.CreateSecurityGroupFunc != nil {
		return m.CreateSecurityGroupFunc(ctx, req)
	}
	return &SecurityGroup{ID: "sg-mock", Name: req.Name, VPCID: req.VPCID, Tags: req.Tags}, nil
}

// AuthorizeIngress mocks ingress authorization.
func (m *MockClient) AuthorizeIngress(ctx context.Context, groupID string, port int32, cidr string) error {
	if m.AuthorizeIngressFunc != nil {
		return m.AuthorizeIngressFunc(ctx, groupID, port, cidr)
	}
	return nil
}

// DeleteSecurityGroup mocks security group deletion.
func (m *MockClient) DeleteSecurityGroup(ctx context.Context, groupID string) error {
	if m.DeleteSecurityGroupFunc != nil {
		return m.DeleteSecurityGroupFunc(ctx, groupID)
	}
	return nil
}

// ListSecurityGroups mocks security group listing.
func (m *MockClient) ListSecurityGroups(ctx context.Context, tags map[string]string) ([]*SecurityGroup, error) {
	if m.ListSecurityGroupsFunc != nil {
		return m.ListSecurityGroupsFunc(ctx, tags)
	}
	return nil, nil
}
