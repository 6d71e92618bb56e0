package testing

import (
	"maps"
	"slices"

	"github.com/imamik/dbprov/internal/config"
)

// TestPassword is the master password every built config carries, so test
// configs are reproducible.
const TestPassword = "test-password-0123"

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with sensible defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			Region: "us-east-1",
			TestID: "test",
			Cluster: config.ClusterSpec{
				MasterPassword: TestPassword,
			},
			PublicIPURL: "http://127.0.0.1:1/ip",
		},
	}
}

// WithRegion sets the AWS region.
func (b *ConfigBuilder) WithRegion(region string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Region = region
	return newBuilder
}

// WithTestID sets the run identifier. The cluster identifier is derived from
// it unless WithIdentifier is used.
func (b *ConfigBuilder) WithTestID(testID string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.TestID = testID
	return newBuilder
}

// WithIdentifier sets the cluster identifier.
func (b *ConfigBuilder) WithIdentifier(identifier string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Cluster.Identifier = identifier
	return newBuilder
}

// WithEngine sets the cluster engine.
func (b *ConfigBuilder) WithEngine(engine string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Cluster.Engine = engine
	return newBuilder
}

// WithClusterTags sets extra tags on the cluster.
func (b *ConfigBuilder) WithClusterTags(tags map[string]string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Cluster.Tags = maps.Clone(tags)
	return newBuilder
}

// WithSubnetGroup sets the subnet group name.
func (b *ConfigBuilder) WithSubnetGroup(name string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Network.SubnetGroup = name
	return newBuilder
}

// WithSecurityGroup enables the security group, optionally authorizing the
// caller's public IP and extra CIDRs.
func (b *ConfigBuilder) WithSecurityGroup(authorizePublicIP bool, cidrs ...string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Network.SecurityGroup = config.SecurityGroupConfig{
		Enabled:           true,
		AuthorizePublicIP: authorizePublicIP,
		AllowedCIDRs:      slices.Clone(cidrs),
	}
	return newBuilder
}

// WithRecordBucket enables record publishing to bucket.
func (b *ConfigBuilder) WithRecordBucket(bucket string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.RecordStore.Bucket = bucket
	return newBuilder
}

// WithWaitForConnection makes create wait for the endpoint to accept connections.
func (b *ConfigBuilder) WithWaitForConnection() *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.WaitForConnection = true
	return newBuilder
}

// Build returns a copy of the config with defaults applied.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	cfg.ApplyDefaults()
	return &cfg
}

// BuildRaw returns a copy of the config without applying defaults.
func (b *ConfigBuilder) BuildRaw() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	cfg := b.cfg
	cfg.Cluster.Tags = maps.Clone(b.cfg.Cluster.Tags)
	cfg.Network.SecurityGroup.AllowedCIDRs = slices.Clone(b.cfg.Network.SecurityGroup.AllowedCIDRs)
	return &ConfigBuilder{cfg: cfg}
}
