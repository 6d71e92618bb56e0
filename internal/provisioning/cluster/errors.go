package cluster

import (
	"fmt"

	"github.com/imamik/dbprov/internal/platform/rds"
)

// WaitingForStatusError reports a cluster observed in a status other than
// the awaited one. It is retryable: AwaitStatus keeps polling on it.
type WaitingForStatusError struct {
	Identifier string
	Expected   rds.ClusterStatus
	Actual     rds.ClusterStatus
}

func (e *WaitingForStatusError) Error() string {
	return fmt.Sprintf("cluster %s is %s, waiting for %s", e.Identifier, e.Actual, e.Expected)
}
