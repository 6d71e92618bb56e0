package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearAWSEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvRegion, EnvDefaultRegion, EnvAccessKeyID, EnvSecretAccessKey,
		EnvSessionToken, EnvProfile, EnvTestID, EnvRecordBucket,
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dbprov.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	clearAWSEnv(t)

	path := writeConfig(t, `
region: eu-central-1
test_id: nightly
cluster:
  engine: mysql
  instance_class: db.r6gd.xlarge
  tags:
    team: qa
network:
  subnet_group: qa-subnets
  security_group:
    enabled: true
    allowed_cidrs: ["10.1.0.0/16"]
record_store:
  bucket: harness-records
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "nightly", cfg.TestID)
	assert.Equal(t, "dbprov-nightly", cfg.Cluster.Identifier)
	assert.Equal(t, EngineMySQL, cfg.Cluster.Engine)
	assert.Equal(t, int32(DefaultMySQLPort), cfg.Cluster.Port)
	assert.Equal(t, "db.r6gd.xlarge", cfg.Cluster.InstanceClass)
	assert.Equal(t, "qa-subnets", cfg.Cluster.SubnetGroup)
	assert.Equal(t, "qa-subnets-access", cfg.Network.SecurityGroup.Name)
	assert.True(t, cfg.Network.SecurityGroup.Enabled)
	assert.Equal(t, map[string]string{"team": "qa"}, cfg.Cluster.Tags)
	assert.Equal(t, "clusters", cfg.RecordStore.Prefix)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearAWSEnv(t)
	t.Setenv(EnvRegion, "us-west-2")
	t.Setenv(EnvAccessKeyID, "AKIAENV")
	t.Setenv(EnvSecretAccessKey, "secret")
	t.Setenv(EnvTestID, "from-env")

	path := writeConfig(t, "region: eu-central-1\ntest_id: from-file\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, "from-env", cfg.TestID)
	assert.True(t, cfg.Credentials.IsStatic())
}

func TestLoad_EnvOnly(t *testing.T) {
	clearAWSEnv(t)
	t.Setenv(EnvDefaultRegion, "ap-southeast-2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ap-southeast-2", cfg.Region)
	assert.NotEmpty(t, cfg.TestID)
}

func TestLoad_Errors(t *testing.T) {
	clearAWSEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeConfig(t, "region: eu-west-1\nunknown_key: 1\n"))
	assert.ErrorContains(t, err, "failed to parse config file")

	_, err = Load(writeConfig(t, "test_id: x\n"))
	assert.ErrorContains(t, err, "region is required")
}

func TestLoad_EmptyFile(t *testing.T) {
	clearAWSEnv(t)
	t.Setenv(EnvRegion, "eu-west-1")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
}
