package testing

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/aws/smithy-go"

	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/util/tags"
)

// ProviderFault builds the normalized error the rds client returns for an
// API fault with the given code.
func ProviderFault(op, code string) error {
	return &rds.ProviderError{Op: op, Fault: smithy.FaultClient, Code: code, Message: "injected by test"}
}

type fakeCluster struct {
	record *rds.Cluster
	// script is the status sequence reported by successive describes. The
	// last entry repeats. StatusDeleted means the cluster is gone.
	script []rds.ClusterStatus
}

// FakeControlPlane is an in-memory rds.ControlPlane. Clusters advance
// through a scripted status sequence, one step per describe, and a deleted
// cluster reports deleting once before it disappears.
type FakeControlPlane struct {
	mu sync.Mutex

	// Network is returned by DefaultNetwork; NetworkErr overrides it.
	Network    *rds.Network
	NetworkErr error

	// CreateScript is the status sequence of clusters created through
	// CreateCluster. Defaults to creating, available.
	CreateScript []rds.ClusterStatus

	// Injected errors by resource name or identifier.
	CreateClusterErr        error
	DescribeClusterErrs     map[string]error
	DeleteClusterErrs       map[string]error
	DeleteSubnetGroupErrs   map[string]error
	DeleteSecurityGroupErrs map[string]error
	ListClustersErr         error

	clusters       map[string]*fakeCluster
	subnetGroups   map[string]*rds.SubnetGroup
	securityGroups map[string]*rds.SecurityGroup
	ingress        map[string][]string
	createRequests []rds.CreateClusterRequest
	calls          map[string]int
	nextID         int
}

var _ rds.ControlPlane = (*FakeControlPlane)(nil)

// NewFakeControlPlane returns a fake with a three-subnet default VPC and no
// other resources.
func NewFakeControlPlane() *FakeControlPlane {
	return &FakeControlPlane{
		Network:                 &rds.Network{VPCID: "vpc-fake", SubnetIDs: []string{"subnet-a", "subnet-b", "subnet-c"}},
		CreateScript:            []rds.ClusterStatus{rds.StatusCreating, rds.StatusAvailable},
		DescribeClusterErrs:     map[string]error{},
		DeleteClusterErrs:       map[string]error{},
		DeleteSubnetGroupErrs:   map[string]error{},
		DeleteSecurityGroupErrs: map[string]error{},
		clusters:                map[string]*fakeCluster{},
		subnetGroups:            map[string]*rds.SubnetGroup{},
		securityGroups:          map[string]*rds.SecurityGroup{},
		ingress:                 map[string][]string{},
		calls:                   map[string]int{},
	}
}

// AddCluster seeds a cluster. Without a script it stays in its record status.
func (f *FakeControlPlane) AddCluster(c *rds.Cluster, script ...rds.ClusterStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(script) == 0 {
		script = []rds.ClusterStatus{c.Status}
	}
	f.clusters[c.Identifier] = &fakeCluster{record: c, script: slices.Clone(script)}
}

// AddSubnetGroup seeds a subnet group.
func (f *FakeControlPlane) AddSubnetGroup(g *rds.SubnetGroup) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subnetGroups[g.Name] = g
}

// AddSecurityGroup seeds a security group. An empty ID is assigned.
func (f *FakeControlPlane) AddSecurityGroup(sg *rds.SecurityGroup) *rds.SecurityGroup {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sg.ID == "" {
		sg.ID = f.newID("sg")
	}
	f.securityGroups[sg.ID] = sg
	return sg
}

// Calls returns how often a ControlPlane method was invoked.
func (f *FakeControlPlane) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// CreateRequests returns every accepted create request in call order.
func (f *FakeControlPlane) CreateRequests() []rds.CreateClusterRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.createRequests)
}

// HasCluster reports whether a cluster still exists.
func (f *FakeControlPlane) HasCluster(identifier string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.clusters[identifier]
	return ok
}

// HasSubnetGroup reports whether a subnet group still exists.
func (f *FakeControlPlane) HasSubnetGroup(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.subnetGroups[name]
	return ok
}

// SecurityGroupCount returns the number of existing security groups.
func (f *FakeControlPlane) SecurityGroupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.securityGroups)
}

// Ingress returns the authorized "port/cidr" rules of a security group.
func (f *FakeControlPlane) Ingress(groupID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.ingress[groupID])
}

func (f *FakeControlPlane) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

func (f *FakeControlPlane) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%04d", prefix, f.nextID)
}

// DescribeCluster reports the next scripted status.
func (f *FakeControlPlane) DescribeCluster(_ context.Context, identifier string) (*rds.Cluster, error) {
	f.record("DescribeCluster")
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.DescribeClusterErrs[identifier]; err != nil {
		return nil, err
	}
	c, ok := f.clusters[identifier]
	if !ok {
		return nil, ProviderFault("DescribeDBClusters", rds.CodeClusterNotFound)
	}
	status := c.script[0]
	if len(c.script) > 1 {
		c.script = c.script[1:]
	}
	if status == rds.StatusDeleted {
		delete(f.clusters, identifier)
		return nil, ProviderFault("DescribeDBClusters", rds.CodeClusterNotFound)
	}
	out := *c.record
	out.Status = status
	return &out, nil
}

// CreateCluster accepts the request and starts the create script.
func (f *FakeControlPlane) CreateCluster(_ context.Context, req rds.CreateClusterRequest) (*rds.Cluster, error) {
	f.record("CreateCluster")
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateClusterErr != nil {
		return nil, f.CreateClusterErr
	}
	if _, ok := f.clusters[req.Identifier]; ok {
		return nil, ProviderFault("CreateDBCluster", rds.CodeClusterAlreadyExists)
	}
	f.createRequests = append(f.createRequests, req)

	port := int32(5432)
	if req.Port != nil {
		port = *req.Port
	}
	c := &rds.Cluster{
		Identifier:         req.Identifier,
		ARN:                "arn:aws:rds:us-east-1:000000000000:cluster:" + req.Identifier,
		Status:             rds.StatusCreating,
		Endpoint:           req.Identifier + ".cluster-fake.us-east-1.rds.amazonaws.com",
		ReaderEndpoint:     req.Identifier + ".cluster-ro-fake.us-east-1.rds.amazonaws.com",
		Port:               port,
		Engine:             req.Engine,
		EngineVersion:      derefOr(req.EngineVersion, "16.4"),
		AllocatedStorage:   derefOr(req.AllocatedStorage, 0),
		StorageType:        derefOr(req.StorageType, ""),
		IOPS:               derefOr(req.IOPS, 0),
		InstanceClass:      derefOr(req.InstanceClass, ""),
		SubnetGroup:        derefOr(req.SubnetGroup, "default"),
		SecurityGroupIDs:   slices.Clone(req.SecurityGroupIDs),
		PubliclyAccessible: derefOr(req.PubliclyAccessible, false),
		DatabaseName:       derefOr(req.DatabaseName, ""),
		MasterUsername:     req.MasterUsername,
		Tags:               maps.Clone(req.Tags),
	}
	f.clusters[req.Identifier] = &fakeCluster{record: c, script: slices.Clone(f.CreateScript)}

	out := *c
	return &out, nil
}

// DeleteCluster starts deletion: one more describe reports deleting.
func (f *FakeControlPlane) DeleteCluster(_ context.Context, identifier string) error {
	f.record("DeleteCluster")
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.DeleteClusterErrs[identifier]; err != nil {
		return err
	}
	c, ok := f.clusters[identifier]
	if !ok {
		return ProviderFault("DeleteDBCluster", rds.CodeClusterNotFound)
	}
	c.script = []rds.ClusterStatus{rds.StatusDeleting, rds.StatusDeleted}
	return nil
}

// ListClusters returns every cluster ordered by identifier.
func (f *FakeControlPlane) ListClusters(_ context.Context) ([]*rds.Cluster, error) {
	f.record("ListClusters")
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ListClustersErr != nil {
		return nil, f.ListClustersErr
	}
	out := make([]*rds.Cluster, 0, len(f.clusters))
	for _, c := range f.clusters {
		cp := *c.record
		cp.Status = c.script[0]
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out, nil
}

// DescribeSubnetGroup returns a seeded or created subnet group.
func (f *FakeControlPlane) DescribeSubnetGroup(_ context.Context, name string) (*rds.SubnetGroup, error) {
	f.record("DescribeSubnetGroup")
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.subnetGroups[name]
	if !ok {
		return nil, ProviderFault("DescribeDBSubnetGroups", rds.CodeSubnetGroupNotFound)
	}
	return g, nil
}

// CreateSubnetGroup stores the group in the default VPC.
func (f *FakeControlPlane) CreateSubnetGroup(_ context.Context, req rds.CreateSubnetGroupRequest) (*rds.SubnetGroup, error) {
	f.record("CreateSubnetGroup")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subnetGroups[req.Name]; ok {
		return nil, ProviderFault("CreateDBSubnetGroup", rds.CodeSubnetGroupAlreadyExists)
	}
	g := &rds.SubnetGroup{
		Name:        req.Name,
		Description: req.Description,
		VPCID:       f.Network.VPCID,
		Status:      "Complete",
		SubnetIDs:   slices.Clone(req.SubnetIDs),
	}
	f.subnetGroups[req.Name] = g
	return g, nil
}

// DeleteSubnetGroup removes a subnet group unless an error is injected.
func (f *FakeControlPlane) DeleteSubnetGroup(_ context.Context, name string) error {
	f.record("DeleteSubnetGroup")
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.DeleteSubnetGroupErrs[name]; err != nil {
		return err
	}
	if _, ok := f.subnetGroups[name]; !ok {
		return ProviderFault("DeleteDBSubnetGroup", rds.CodeSubnetGroupNotFound)
	}
	delete(f.subnetGroups, name)
	return nil
}

// ListSubnetGroups returns every subnet group ordered by name.
func (f *FakeControlPlane) ListSubnetGroups(_ context.Context) ([]*rds.SubnetGroup, error) {
	f.record("ListSubnetGroups")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*rds.SubnetGroup, 0, len(f.subnetGroups))
	for _, name := range sortedKeys(f.subnetGroups) {
		out = append(out, f.subnetGroups[name])
	}
	return out, nil
}

// DefaultNetwork returns Network or NetworkErr.
func (f *FakeControlPlane) DefaultNetwork(_ context.Context) (*rds.Network, error) {
	f.record("DefaultNetwork")
	if f.NetworkErr != nil {
		return nil, f.NetworkErr
	}
	return f.Network, nil
}

// DescribeSecurityGroup finds a group by VPC and name.
func (f *FakeControlPlane) DescribeSecurityGroup(_ context.Context, vpcID, name string) (*rds.SecurityGroup, error) {
	f.record("DescribeSecurityGroup")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range sortedKeys(f.securityGroups) {
		sg := f.securityGroups[id]
		if sg.VPCID == vpcID && sg.Name == name {
			return sg, nil
		}
	}
	return nil, ProviderFault("DescribeSecurityGroups", rds.CodeSecurityGroupNotFound)
}

// CreateSecurityGroup stores a new group with a generated ID.
func (f *FakeControlPlane) CreateSecurityGroup(_ context.Context, req rds.CreateSecurityGroupRequest) (*rds.SecurityGroup, error) {
	f.record("CreateSecurityGroup")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sg := range f.securityGroups {
		if sg.VPCID == req.VPCID && sg.Name == req.Name {
			return nil, ProviderFault("CreateSecurityGroup", rds.CodeDuplicateSecurityGroup)
		}
	}
	sg := &rds.SecurityGroup{
		ID:          f.newID("sg"),
		Name:        req.Name,
		VPCID:       req.VPCID,
		Description: req.Description,
		Tags:        maps.Clone(req.Tags),
	}
	f.securityGroups[sg.ID] = sg
	return sg, nil
}

// AuthorizeIngress records a rule. Repeating a rule is not an error.
func (f *FakeControlPlane) AuthorizeIngress(_ context.Context, groupID string, port int32, cidr string) error {
	f.record("AuthorizeIngress")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.securityGroups[groupID]; !ok {
		return ProviderFault("AuthorizeSecurityGroupIngress", rds.CodeSecurityGroupNotFound)
	}
	rule := fmt.Sprintf("%d/%s", port, cidr)
	if !slices.Contains(f.ingress[groupID], rule) {
		f.ingress[groupID] = append(f.ingress[groupID], rule)
	}
	return nil
}

// DeleteSecurityGroup removes a group unless an error is injected.
func (f *FakeControlPlane) DeleteSecurityGroup(_ context.Context, groupID string) error {
	f.record("DeleteSecurityGroup")
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.DeleteSecurityGroupErrs[groupID]; err != nil {
		return err
	}
	if _, ok := f.securityGroups[groupID]; !ok {
		return ProviderFault("DeleteSecurityGroup", rds.CodeSecurityGroupNotFound)
	}
	delete(f.securityGroups, groupID)
	delete(f.ingress, groupID)
	return nil
}

// ListSecurityGroups returns the groups carrying every wanted tag.
func (f *FakeControlPlane) ListSecurityGroups(_ context.Context, want map[string]string) ([]*rds.SecurityGroup, error) {
	f.record("ListSecurityGroups")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*rds.SecurityGroup
	for _, id := range sortedKeys(f.securityGroups) {
		if sg := f.securityGroups[id]; tags.Matches(sg.Tags, want) {
			out = append(out, sg)
		}
	}
	return out, nil
}

func derefOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := slices.Collect(maps.Keys(m))
	sort.Strings(keys)
	return keys
}
