// Package async provides utilities for parallel task execution with
// error collection.
//
// [RunParallel] runs independent operations concurrently, waits for all of
// them, and joins their errors. The CLI uses it to provision several
// database clusters for one test run at once.
package async
