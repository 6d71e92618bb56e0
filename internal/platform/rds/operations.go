package rds

import (
	"context"
	"fmt"
)

// EnsureOperation encapsulates describe-or-create logic for any resource.
//
// Usage example:
//
//	sg, err := (&EnsureOperation[*SubnetGroup]{
//	    Name:         "dbprov-subnets",
//	    ResourceType: "subnet group",
//	    Describe:     client.DescribeSubnetGroup,
//	    Create: func(ctx context.Context, name string) (*SubnetGroup, error) {
//	        return client.CreateSubnetGroup(ctx, CreateSubnetGroupRequest{Name: name, SubnetIDs: ids})
//	    },
//	}).Execute(ctx)
type EnsureOperation[T any] struct {
	Name         string
	ResourceType string

	// Describe retrieves the resource by name. It must fail with a
	// not-found error when the resource does not exist.
	Describe func(ctx context.Context, name string) (T, error)

	// Create creates the resource.
	Create func(ctx context.Context, name string) (T, error)

	// OnCreate is called after a successful Create (optional).
	OnCreate func(resource T)
}

// Execute returns the existing resource, or creates it when Describe reports
// not found. An existing resource is returned as-is; differences from the
// desired configuration are not reconciled. Any other Describe error is
// returned unchanged.
func (op *EnsureOperation[T]) Execute(ctx context.Context) (T, error) {
	var zero T

	resource, err := op.Describe(ctx, op.Name)
	if err == nil {
		return resource, nil
	}
	if !IsNotFound(err) {
		return zero, err
	}

	resource, err = op.Create(ctx, op.Name)
	if err != nil {
		return zero, fmt.Errorf("failed to create %s %s: %w", op.ResourceType, op.Name, err)
	}
	if op.OnCreate != nil {
		op.OnCreate(resource)
	}
	return resource, nil
}
