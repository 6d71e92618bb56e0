package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := &Config{Region: "us-east-1", TestID: "t1"}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing region", func(c *Config) { c.Region = "" }, "region is required"},
		{"half credentials", func(c *Config) { c.Credentials.AccessKeyID = "AKIA" }, "must be set together"},
		{"bad engine", func(c *Config) { c.Cluster.Engine = "oracle" }, "invalid engine"},
		{"bad storage type", func(c *Config) { c.Cluster.StorageType = "standard" }, "invalid storage type"},
		{"small storage", func(c *Config) { c.Cluster.AllocatedStorage = 5 }, "at least 20 GiB"},
		{"io1 without iops", func(c *Config) { c.Cluster.IOPS = 0 }, "requires iops"},
		{"bad identifier", func(c *Config) { c.Cluster.Identifier = "1db" }, "identifier"},
		{"short password", func(c *Config) { c.Cluster.MasterPassword = "short" }, "at least 8"},
		{"port out of range", func(c *Config) { c.Cluster.Port = 70000 }, "out of range"},
		{"bad cidr", func(c *Config) { c.Network.SecurityGroup.AllowedCIDRs = []string{"10.0.0.0"} }, "invalid allowed CIDR"},
		{"good cidr", func(c *Config) { c.Network.SecurityGroup.AllowedCIDRs = []string{"10.0.0.0/16"} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
