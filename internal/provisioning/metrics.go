package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "dbprov"

// Registry holds the provisioning metrics. It is separate from the default
// registry so a run can dump exactly these series to a textfile.
var Registry = prometheus.NewRegistry()

var (
	// pollAttemptsTotal counts status and connectivity poll attempts.
	pollAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "poll_attempts_total",
			Help:      "Total number of poll attempts by wait kind and result",
		},
		[]string{"wait", "result"},
	)

	// clusterCreateDuration measures create-to-available time.
	clusterCreateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "cluster_create_duration_seconds",
			Help:      "Time from create request until the cluster is available",
			Buckets:   []float64{60, 120, 300, 600, 900, 1200, 1800, 2700},
		},
		[]string{"engine", "result"},
	)

	// teardownResourcesTotal counts teardown outcomes per resource kind.
	teardownResourcesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "teardown_resources_total",
			Help:      "Total number of resources processed by teardown by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		pollAttemptsTotal,
		clusterCreateDuration,
		teardownResourcesTotal,
	)
}

// RecordPollAttempt records one poll attempt for the given wait kind.
func RecordPollAttempt(wait string, err error) {
	result := "ready"
	if err != nil {
		result = "pending"
	}
	pollAttemptsTotal.WithLabelValues(wait, result).Inc()
}

// RecordClusterCreate records the duration of a cluster creation.
func RecordClusterCreate(engine string, d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	clusterCreateDuration.WithLabelValues(engine, result).Observe(d.Seconds())
}

// RecordTeardown records the outcome of deleting one resource.
func RecordTeardown(kind, outcome string) {
	teardownResourcesTotal.WithLabelValues(kind, outcome).Inc()
}

// WriteMetrics writes the registry in text exposition format to path.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
