package rds

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/imamik/dbprov/internal/config"
)

// ClusterManager defines the interface for managing DB clusters.
type ClusterManager interface {
	// DescribeCluster returns the observed state of one cluster, or a
	// not-found *ProviderError when it does not exist.
	DescribeCluster(ctx context.Context, identifier string) (*Cluster, error)
	// CreateCluster submits a create request. It returns as soon as the
	// request is accepted; the cluster is still creating.
	CreateCluster(ctx context.Context, req CreateClusterRequest) (*Cluster, error)
	// DeleteCluster submits a delete request without a final snapshot and
	// does not wait for it to complete.
	DeleteCluster(ctx context.Context, identifier string) error
	// ListClusters returns every cluster visible to the credentials in use.
	ListClusters(ctx context.Context) ([]*Cluster, error)
}

// SubnetGroupManager defines the interface for managing DB subnet groups.
type SubnetGroupManager interface {
	DescribeSubnetGroup(ctx context.Context, name string) (*SubnetGroup, error)
	CreateSubnetGroup(ctx context.Context, req CreateSubnetGroupRequest) (*SubnetGroup, error)
	DeleteSubnetGroup(ctx context.Context, name string) error
	ListSubnetGroups(ctx context.Context) ([]*SubnetGroup, error)
}

// NetworkManager defines the read-only interface to the default VPC.
type NetworkManager interface {
	DefaultNetwork(ctx context.Context) (*Network, error)
}

// SecurityGroupManager defines the interface for managing VPC security groups.
type SecurityGroupManager interface {
	DescribeSecurityGroup(ctx context.Context, vpcID, name string) (*SecurityGroup, error)
	CreateSecurityGroup(ctx context.Context, req CreateSecurityGroupRequest) (*SecurityGroup, error)
	// AuthorizeIngress opens a TCP port to a CIDR. An identical existing
	// rule is not an error.
	AuthorizeIngress(ctx context.Context, groupID string, port int32, cidr string) error
	DeleteSecurityGroup(ctx context.Context, groupID string) error
	// ListSecurityGroups returns the security groups carrying every given tag.
	ListSecurityGroups(ctx context.Context, tags map[string]string) ([]*SecurityGroup, error)
}

// ControlPlane is everything the provisioning layer needs from AWS.
type ControlPlane interface {
	ClusterManager
	SubnetGroupManager
	NetworkManager
	SecurityGroupManager
}

// Client implements ControlPlane on top of the AWS SDK.
// It resolves credentials once at construction and is immutable afterwards.
type Client struct {
	rds      *awsrds.Client
	ec2      *ec2.Client
	region   string
	timeouts *config.Timeouts
}

var _ ControlPlane = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeouts sets the throttling retry parameters.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) {
		c.timeouts = t
	}
}

// NewClient loads the AWS configuration for cfg and creates a Client.
// Static credentials from cfg take precedence; otherwise the named profile
// or the default credential chain is used.
func NewClient(ctx context.Context, cfg *config.Config, opts ...ClientOption) (*Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Credentials.IsStatic() {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Credentials.AccessKeyID,
				cfg.Credentials.SecretAccessKey,
				cfg.Credentials.SessionToken,
			)))
	} else if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewClientFromAWSConfig(awsCfg, opts...), nil
}

// NewClientFromAWSConfig creates a Client from an already resolved AWS
// configuration.
func NewClientFromAWSConfig(awsCfg aws.Config, opts ...ClientOption) *Client {
	c := &Client{
		rds:      awsrds.NewFromConfig(awsCfg),
		ec2:      ec2.NewFromConfig(awsCfg),
		region:   awsCfg.Region,
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Region returns the AWS region the client operates in.
func (c *Client) Region() string {
	return c.region
}
