// Package s3 publishes provisioned cluster records to S3.
//
// A test harness running elsewhere reads the JSON record of each cluster
// (endpoints, port, credentials) from <bucket>/<prefix>/<identifier>.json.
// Teardown removes every record under the prefix.
package s3
