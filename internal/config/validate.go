package config

import (
	"fmt"
	"net"
	"sort"

	"github.com/imamik/dbprov/internal/util/naming"
)

// ValidEngines lists the cluster engines RDS Multi-AZ DB clusters support.
var ValidEngines = map[string]bool{
	EnginePostgres: true,
	EngineMySQL:    true,
}

// ValidStorageTypes lists the storage types a Multi-AZ DB cluster accepts.
var ValidStorageTypes = map[string]bool{
	"io1": true,
	"io2": true,
	"gp3": true,
}

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required (set region or %s)", EnvRegion)
	}
	if (c.Credentials.AccessKeyID == "") != (c.Credentials.SecretAccessKey == "") {
		return fmt.Errorf("credentials: access_key_id and secret_access_key must be set together")
	}

	if err := c.Cluster.Validate(); err != nil {
		return fmt.Errorf("cluster validation failed: %w", err)
	}

	if err := c.validateNetwork(); err != nil {
		return fmt.Errorf("network validation failed: %w", err)
	}

	return nil
}

// Validate checks a defaulted cluster spec.
func (s ClusterSpec) Validate() error {
	if err := naming.ValidateClusterIdentifier(s.Identifier); err != nil {
		return err
	}
	if !ValidEngines[s.Engine] {
		return fmt.Errorf("invalid engine %q: must be one of %v", s.Engine, getMapKeys(ValidEngines))
	}
	if !ValidStorageTypes[s.StorageType] {
		return fmt.Errorf("invalid storage type %q: must be one of %v", s.StorageType, getMapKeys(ValidStorageTypes))
	}
	if s.AllocatedStorage < 20 {
		return fmt.Errorf("allocated_storage must be at least 20 GiB, got %d", s.AllocatedStorage)
	}
	if storageTypeTakesIOPS(s.StorageType) && s.IOPS <= 0 {
		return fmt.Errorf("storage type %s requires iops", s.StorageType)
	}
	if s.InstanceClass == "" {
		return fmt.Errorf("instance_class is required")
	}
	if s.SubnetGroup == "" {
		return fmt.Errorf("subnet_group is required")
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port %d out of range", s.Port)
	}
	if s.MasterUsername == "" {
		return fmt.Errorf("master_username is required")
	}
	if len(s.MasterPassword) < 8 {
		return fmt.Errorf("master_password must be at least 8 characters")
	}
	return nil
}

func (c *Config) validateNetwork() error {
	if c.Network.SubnetGroup == "" {
		return fmt.Errorf("subnet_group is required")
	}
	for _, cidr := range c.Network.SecurityGroup.AllowedCIDRs {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("invalid allowed CIDR %q: %w", cidr, err)
		}
	}
	return nil
}

func getMapKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
