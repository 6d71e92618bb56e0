package tags

import "sort"

// Standard tag keys. The dbprov.io prefix keeps them apart from user tags.
const (
	// KeyManagedBy identifies the management system.
	KeyManagedBy = "dbprov.io/managed-by"

	// KeyTestID identifies the test run that created the resource.
	KeyTestID = "dbprov.io/test-id"

	// KeyCluster identifies which database cluster a resource belongs to.
	KeyCluster = "dbprov.io/cluster"

	// KeyComponent identifies the resource's role (cluster, subnet-group, security-group).
	KeyComponent = "dbprov.io/component"
)

// ManagedByDBProv is the KeyManagedBy value for resources created by dbprov.
const ManagedByDBProv = "dbprov"

// Component values
const (
	ComponentCluster       = "cluster"
	ComponentSubnetGroup   = "subnet-group"
	ComponentSecurityGroup = "security-group"
)

// Builder provides a fluent interface for building resource tag sets.
type Builder struct {
	tags map[string]string
}

// NewBuilder creates a tag builder with the managed-by tag pre-set.
func NewBuilder() *Builder {
	return &Builder{
		tags: map[string]string{
			KeyManagedBy: ManagedByDBProv,
		},
	}
}

// WithComponent sets the component tag.
func (b *Builder) WithComponent(component string) *Builder {
	b.tags[KeyComponent] = component
	return b
}

// WithCluster sets the cluster tag.
func (b *Builder) WithCluster(identifier string) *Builder {
	if identifier != "" {
		b.tags[KeyCluster] = identifier
	}
	return b
}

// WithTestIDIfSet adds a test-id tag only if testID is non-empty.
func (b *Builder) WithTestIDIfSet(testID string) *Builder {
	if testID != "" {
		b.tags[KeyTestID] = testID
	}
	return b
}

// Merge adds all tags from the provided map. User tags never override the
// managed-by tag.
func (b *Builder) Merge(extra map[string]string) *Builder {
	for k, v := range extra {
		if k == KeyManagedBy {
			continue
		}
		b.tags[k] = v
	}
	return b
}

// Build returns a copy of the tags map.
func (b *Builder) Build() map[string]string {
	result := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		result[k] = v
	}
	return result
}

// Managed returns the tag filter matching every resource created by dbprov.
func Managed() map[string]string {
	return map[string]string{KeyManagedBy: ManagedByDBProv}
}

// SortedKeys returns the keys of m in lexical order, for deterministic
// request payloads.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Matches reports whether have contains every key/value pair of want.
func Matches(have, want map[string]string) bool {
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}
	return true
}
