package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/imamik/dbprov/internal/util/naming"
)

// Supported engines.
const (
	EnginePostgres = "postgres"
	EngineMySQL    = "mysql"
)

// Defaults applied by ClusterSpec.WithDefaults.
const (
	DefaultEngine           = EnginePostgres
	DefaultAllocatedStorage = 100
	DefaultStorageType      = "io1"
	DefaultIOPS             = 1000
	DefaultInstanceClass    = "db.m5d.large"
	DefaultMasterUsername   = "dbprov"
	DefaultDatabaseName     = "dbprov"
	DefaultPostgresPort     = 5432
	DefaultMySQLPort        = 3306
	DefaultRecordPrefix     = "clusters"
)

// Config holds the application configuration.
type Config struct {
	Region      string      `yaml:"region"`
	Profile     string      `yaml:"profile"`
	Credentials Credentials `yaml:"credentials"`

	// TestID tags every resource created by this run. Generated when empty.
	TestID string `yaml:"test_id"`

	Cluster     ClusterSpec       `yaml:"cluster"`
	Network     NetworkConfig     `yaml:"network"`
	RecordStore RecordStoreConfig `yaml:"record_store"`

	// WaitForConnection makes create block until the writer endpoint accepts
	// connections, after the cluster reports available.
	WaitForConnection bool `yaml:"wait_for_connection"`

	// PublicIPURL overrides the service used to discover the caller's public IP.
	PublicIPURL string `yaml:"public_ip_url"`
}

// Credentials are static AWS credentials. When empty the default AWS
// credential chain (environment, shared files, instance role) is used.
type Credentials struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
}

// IsStatic reports whether static credentials are configured.
func (c Credentials) IsStatic() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// ClusterSpec is the desired configuration of a database cluster. It is
// immutable once submitted to the control plane.
type ClusterSpec struct {
	Identifier       string `yaml:"identifier"`
	Engine           string `yaml:"engine"`
	EngineVersion    string `yaml:"engine_version"`
	AllocatedStorage int32  `yaml:"allocated_storage"`
	StorageType      string `yaml:"storage_type"`
	IOPS             int32  `yaml:"iops"`
	InstanceClass    string `yaml:"instance_class"`
	SubnetGroup      string `yaml:"subnet_group"`
	DatabaseName     string `yaml:"database_name"`
	Port             int32  `yaml:"port"`
	MasterUsername   string `yaml:"master_username"`
	MasterPassword   string `yaml:"master_password"`

	// PasswordGenerated is set when MasterPassword was generated by
	// WithDefaults rather than configured.
	PasswordGenerated bool `yaml:"-"`

	// PubliclyAccessible defaults to true; the harness connects from outside the VPC.
	PubliclyAccessible *bool `yaml:"publicly_accessible"`

	Tags map[string]string `yaml:"tags"`
}

// NetworkConfig names the dependent resources a cluster is placed into.
type NetworkConfig struct {
	SubnetGroup   string              `yaml:"subnet_group"`
	SecurityGroup SecurityGroupConfig `yaml:"security_group"`
}

// SecurityGroupConfig controls the optional VPC security group attached to
// created clusters.
type SecurityGroupConfig struct {
	Enabled           bool     `yaml:"enabled"`
	Name              string   `yaml:"name"`
	AuthorizePublicIP bool     `yaml:"authorize_public_ip"`
	AllowedCIDRs      []string `yaml:"allowed_cidrs"`
}

// RecordStoreConfig configures publishing created cluster records to S3.
// Publishing is disabled when Bucket is empty.
type RecordStoreConfig struct {
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// Enabled reports whether cluster records should be published.
func (r RecordStoreConfig) Enabled() bool {
	return r.Bucket != ""
}

// ApplyDefaults fills in every omitted field that has a documented default.
// The generated password and test ID make it non-deterministic; call it once.
func (c *Config) ApplyDefaults() {
	if c.TestID == "" {
		c.TestID = "run-" + strings.Split(uuid.NewString(), "-")[0]
	}
	if c.Network.SubnetGroup == "" {
		c.Network.SubnetGroup = naming.DefaultSubnetGroup
	}
	if c.Network.SecurityGroup.Name == "" {
		c.Network.SecurityGroup.Name = naming.SecurityGroup(c.Network.SubnetGroup)
	}
	if c.RecordStore.Enabled() && c.RecordStore.Prefix == "" {
		c.RecordStore.Prefix = DefaultRecordPrefix
	}
	if c.RecordStore.Region == "" {
		c.RecordStore.Region = c.Region
	}
	if c.Cluster.Identifier == "" {
		c.Cluster.Identifier = naming.Cluster(c.TestID)
	}
	if c.Cluster.SubnetGroup == "" {
		c.Cluster.SubnetGroup = c.Network.SubnetGroup
	}
	c.Cluster = c.Cluster.WithDefaults()
}

// WithDefaults returns a copy of the spec with every omitted field defaulted.
// EngineVersion stays empty, which lets the provider pick its default version.
func (s ClusterSpec) WithDefaults() ClusterSpec {
	if s.Engine == "" {
		s.Engine = DefaultEngine
	}
	if s.AllocatedStorage == 0 {
		s.AllocatedStorage = DefaultAllocatedStorage
	}
	if s.StorageType == "" {
		s.StorageType = DefaultStorageType
	}
	if s.IOPS == 0 && storageTypeTakesIOPS(s.StorageType) {
		s.IOPS = DefaultIOPS
	}
	if s.InstanceClass == "" {
		s.InstanceClass = DefaultInstanceClass
	}
	if s.SubnetGroup == "" {
		s.SubnetGroup = naming.DefaultSubnetGroup
	}
	if s.DatabaseName == "" && s.Engine == EnginePostgres {
		s.DatabaseName = DefaultDatabaseName
	}
	if s.Port == 0 {
		s.Port = DefaultPort(s.Engine)
	}
	if s.MasterUsername == "" {
		s.MasterUsername = DefaultMasterUsername
	}
	if s.MasterPassword == "" {
		s.MasterPassword = generatePassword()
		s.PasswordGenerated = true
	}
	if s.PubliclyAccessible == nil {
		public := true
		s.PubliclyAccessible = &public
	}
	if s.Tags != nil {
		tags := make(map[string]string, len(s.Tags))
		for k, v := range s.Tags {
			tags[k] = v
		}
		s.Tags = tags
	}
	return s
}

// IsPubliclyAccessible dereferences PubliclyAccessible, treating nil as true.
func (s ClusterSpec) IsPubliclyAccessible() bool {
	return s.PubliclyAccessible == nil || *s.PubliclyAccessible
}

// DefaultPort returns the listener port an engine uses by default.
func DefaultPort(engine string) int32 {
	if engine == EngineMySQL {
		return DefaultMySQLPort
	}
	return DefaultPostgresPort
}

// storageTypeTakesIOPS reports whether a storage type requires provisioned IOPS.
func storageTypeTakesIOPS(storageType string) bool {
	switch storageType {
	case "io1", "io2":
		return true
	}
	return false
}

// generatePassword returns a random master password. Hex keeps it clear of
// the characters RDS rejects ('/', '"', '@', space).
func generatePassword() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(buf)
}
