// Package tags provides consistent tagging for provisioned AWS resources.
//
// Every resource dbprov creates carries the managed-by tag so teardown can
// tell its own security groups apart, plus the test run identifier so a
// harness can attribute leftovers to the run that created them.
package tags
