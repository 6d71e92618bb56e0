package cluster

import (
	"fmt"

	"github.com/imamik/dbprov/internal/provisioning"
)

// Publisher is a phase that hands every cluster created in the context to
// a record store.
type Publisher struct {
	records provisioning.RecordPublisher
}

// NewPublisher creates a publish phase writing to records.
func NewPublisher(records provisioning.RecordPublisher) *Publisher {
	return &Publisher{records: records}
}

// Name implements the provisioning.Phase interface.
func (p *Publisher) Name() string {
	return "publish"
}

// Provision implements the provisioning.Phase interface.
func (p *Publisher) Provision(ctx *provisioning.Context) error {
	for _, record := range ctx.State.Clusters() {
		key, err := p.records.Put(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to publish cluster %s: %w", record.Identifier, err)
		}
		ctx.Observer.Printf("[publish] Wrote record for %s to %s", record.Identifier, key)
	}
	return nil
}
