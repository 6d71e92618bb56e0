// Package config defines the configuration model for provisioning database
// clusters.
//
// A [Config] is loaded once per process from a YAML file, overlaid with AWS_*
// and DBPROV_* environment variables (optionally read from a .env file),
// defaulted, and validated. It carries the AWS region and credentials, the
// desired [ClusterSpec], the dependent network resources, and the optional
// record store. [Timeouts] are loaded separately from the environment.
package config
