package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	ClusterCreate     time.Duration // Time budget for a cluster to become available
	ClusterDelete     time.Duration // Time budget for a cluster to disappear
	ClusterPoll       time.Duration // Interval between cluster status queries
	ClusterLog        time.Duration // Progress message cadence while waiting on a cluster
	Connect           time.Duration // Time budget for the writer endpoint to accept connections
	ConnectPoll       time.Duration // Interval between connection attempts
	RetryMaxAttempts  int           // Maximum retries of a throttled API call
	RetryInitialDelay time.Duration // Initial backoff of a throttled API call
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - DBPROV_TIMEOUT_CLUSTER_CREATE (default: 30m)
//   - DBPROV_TIMEOUT_CLUSTER_DELETE (default: 30m)
//   - DBPROV_CLUSTER_POLL_INTERVAL (default: 10s)
//   - DBPROV_CLUSTER_LOG_INTERVAL (default: 1m)
//   - DBPROV_TIMEOUT_CONNECT (default: 5m)
//   - DBPROV_CONNECT_POLL_INTERVAL (default: 5s)
//   - DBPROV_RETRY_MAX_ATTEMPTS (default: 5)
//   - DBPROV_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ClusterCreate:     parseDuration("DBPROV_TIMEOUT_CLUSTER_CREATE", 30*time.Minute),
		ClusterDelete:     parseDuration("DBPROV_TIMEOUT_CLUSTER_DELETE", 30*time.Minute),
		ClusterPoll:       parseDuration("DBPROV_CLUSTER_POLL_INTERVAL", 10*time.Second),
		ClusterLog:        parseDuration("DBPROV_CLUSTER_LOG_INTERVAL", time.Minute),
		Connect:           parseDuration("DBPROV_TIMEOUT_CONNECT", 5*time.Minute),
		ConnectPoll:       parseDuration("DBPROV_CONNECT_POLL_INTERVAL", 5*time.Second),
		RetryMaxAttempts:  parseInt("DBPROV_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("DBPROV_RETRY_INITIAL_DELAY", time.Second),
	}
}

// TestTimeouts returns short timeouts suitable for unit tests.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		ClusterCreate:     time.Second,
		ClusterDelete:     time.Second,
		ClusterPoll:       time.Millisecond,
		ClusterLog:        10 * time.Millisecond,
		Connect:           time.Second,
		ConnectPoll:       time.Millisecond,
		RetryMaxAttempts:  1,
		RetryInitialDelay: time.Millisecond,
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}

	return i
}
