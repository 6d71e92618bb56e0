package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read by the CLI when no --config flag is given.
const DefaultConfigFile = "dbprov.yaml"

// Environment variables that override the config file.
const (
	EnvRegion          = "AWS_REGION"
	EnvDefaultRegion   = "AWS_DEFAULT_REGION"
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvSessionToken    = "AWS_SESSION_TOKEN"
	EnvProfile         = "AWS_PROFILE"
	EnvTestID          = "DBPROV_TEST_ID"
	EnvRecordBucket    = "DBPROV_RECORD_BUCKET"
)

// Load reads, overlays, defaults and validates the configuration.
//
// A .env file in the working directory is loaded first when present. The YAML
// file at path is optional: when path is empty, or is DefaultConfigFile and
// does not exist, configuration comes from the environment alone.
func Load(path string) (*Config, error) {
	// Missing .env is the common case.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && path == DefaultConfigFile:
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	applyEnv(cfg)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// decode parses YAML into cfg, rejecting unknown keys.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv overlays environment variables on top of file values.
func applyEnv(cfg *Config) {
	if v := firstEnv(EnvRegion, EnvDefaultRegion); v != "" {
		cfg.Region = v
	}
	if v := os.Getenv(EnvProfile); v != "" {
		cfg.Profile = v
	}
	if v := os.Getenv(EnvAccessKeyID); v != "" {
		cfg.Credentials.AccessKeyID = v
	}
	if v := os.Getenv(EnvSecretAccessKey); v != "" {
		cfg.Credentials.SecretAccessKey = v
	}
	if v := os.Getenv(EnvSessionToken); v != "" {
		cfg.Credentials.SessionToken = v
	}
	if v := os.Getenv(EnvTestID); v != "" {
		cfg.TestID = v
	}
	if v := os.Getenv(EnvRecordBucket); v != "" {
		cfg.RecordStore.Bucket = v
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
