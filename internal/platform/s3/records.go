package s3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/util/naming"
)

// ErrRecordNotFound is returned when no record exists for a cluster.
var ErrRecordNotFound = errors.New("record not found")

// RecordStore reads and writes cluster records under a bucket prefix.
type RecordStore struct {
	client *Client
	bucket string
	prefix string
}

// NewRecordStore creates a record store.
func NewRecordStore(client *Client, bucket, prefix string) *RecordStore {
	return &RecordStore{client: client, bucket: bucket, prefix: prefix}
}

// Bucket returns the bucket the store writes to.
func (s *RecordStore) Bucket() string {
	return s.bucket
}

// Ensure creates the bucket if it does not exist.
func (s *RecordStore) Ensure(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.CreateBucket(ctx, s.bucket)
}

// Put writes the record for a cluster and returns its key.
func (s *RecordStore) Put(ctx context.Context, cluster *rds.Cluster) (string, error) {
	data, err := json.MarshalIndent(cluster, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode record for %s: %w", cluster.Identifier, err)
	}
	key := naming.RecordKey(s.prefix, cluster.Identifier)
	if err := s.client.PutObject(ctx, s.bucket, key, "application/json", data); err != nil {
		return "", err
	}
	return key, nil
}

// Get reads the record for a cluster.
func (s *RecordStore) Get(ctx context.Context, identifier string) (*rds.Cluster, error) {
	data, err := s.client.GetObject(ctx, s.bucket, naming.RecordKey(s.prefix, identifier))
	if err != nil {
		return nil, err
	}
	var cluster rds.Cluster
	if err := json.Unmarshal(data, &cluster); err != nil {
		return nil, fmt.Errorf("failed to decode record for %s: %w", identifier, err)
	}
	return &cluster, nil
}

// DeleteAll removes every record under the prefix. It keeps going past
// individual failures and returns how many records were deleted.
func (s *RecordStore) DeleteAll(ctx context.Context) (int, error) {
	listPrefix := s.prefix
	if listPrefix != "" {
		listPrefix += "/"
	}
	keys, err := s.client.ListObjects(ctx, s.bucket, listPrefix)
	if err != nil {
		return 0, err
	}

	deleted := 0
	var errs []error
	for _, key := range keys {
		if err := s.client.DeleteObject(ctx, s.bucket, key); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted++
	}
	return deleted, errors.Join(errs...)
}
