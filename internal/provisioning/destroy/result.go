package destroy

import (
	"github.com/imamik/dbprov/internal/platform/rds"
)

// Outcome is the result of one delete attempt.
type Outcome string

// Teardown outcomes.
const (
	// OutcomeDeleted means the resource was deleted, is being deleted
	// asynchronously, or was already gone.
	OutcomeDeleted Outcome = "deleted"
	// OutcomeInvalidState means the resource is busy or still referenced,
	// typically by a cluster whose deletion is in flight.
	OutcomeInvalidState Outcome = "invalid-state"
	// OutcomeError means any other failure.
	OutcomeError Outcome = "error"
)

// Resource kinds.
const (
	KindCluster       = "cluster"
	KindSubnetGroup   = "subnet-group"
	KindSecurityGroup = "security-group"
)

// Result is the teardown outcome of one resource.
type Result struct {
	Kind       string  `json:"kind"`
	Identifier string  `json:"identifier"`
	Outcome    Outcome `json:"outcome"`
	Err        error   `json:"-"`
}

// Error returns the failure message, or an empty string.
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// classify maps a delete error to an outcome. Not-found counts as deleted.
func classify(err error) Outcome {
	switch {
	case err == nil, rds.IsNotFound(err):
		return OutcomeDeleted
	case rds.IsInvalidState(err):
		return OutcomeInvalidState
	default:
		return OutcomeError
	}
}

// Summary counts results per outcome.
func Summary(results []Result) map[Outcome]int {
	out := map[Outcome]int{}
	for _, r := range results {
		out[r.Outcome]++
	}
	return out
}
