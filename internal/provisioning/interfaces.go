package provisioning

import (
	"context"

	"github.com/imamik/dbprov/internal/platform/rds"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Logger is the printf-style subset of Observer. It satisfies retry.Logger,
// so observers receive poll progress messages directly.
type Logger interface {
	Printf(format string, v ...any)
}

// PublicIPSource resolves the caller's public address as a /32 CIDR.
// Implemented by netutil.PublicIPResolver.
type PublicIPSource interface {
	CIDR(ctx context.Context) (string, error)
}

// RecordPublisher stores the record of a created cluster for the harness.
// Implemented by s3.RecordStore.
type RecordPublisher interface {
	Put(ctx context.Context, cluster *rds.Cluster) (string, error)
}

// RecordCleaner removes all published cluster records.
// Implemented by s3.RecordStore.
type RecordCleaner interface {
	DeleteAll(ctx context.Context) (int, error)
}
