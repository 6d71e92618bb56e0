// Package testing provides test utilities, builders, and fakes for unit and
// integration tests of the provisioning layer.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - FakeControlPlane: Stateful in-memory rds.ControlPlane with scripted cluster status
//   - RecordingObserver: Observer that keeps every event and message
//   - NewContext: provisioning.Context wired with test timeouts and fakes
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithTestID("t1").
//	    WithEngine("postgres").
//	    Build()
//
//	fake := testing.NewFakeControlPlane()
//	ctx := testing.NewContext(t, cfg, fake)
package testing
