package provisioning

import (
	"context"
	"sort"
	"sync"

	"github.com/imamik/dbprov/internal/config"
	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/util/netutil"
)

// Infrastructure holds the dependent resources clusters are placed into.
type Infrastructure struct {
	Network       *rds.Network
	SubnetGroup   *rds.SubnetGroup
	SecurityGroup *rds.SecurityGroup // nil unless security groups are enabled
	PublicIP      string             // CIDR authorized on the security group, if any
}

// State holds the shared results of provisioning phases.
// It is safe for concurrent use by cluster provisioners running in parallel.
type State struct {
	mu       sync.RWMutex
	infra    *Infrastructure
	clusters map[string]*rds.Cluster
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{clusters: make(map[string]*rds.Cluster)}
}

// SetInfrastructure records the ensured dependent resources.
func (s *State) SetInfrastructure(infra Infrastructure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infra = &infra
}

// Infrastructure returns the ensured dependent resources, or false when the
// infrastructure phase has not run in this context.
func (s *State) Infrastructure() (Infrastructure, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.infra == nil {
		return Infrastructure{}, false
	}
	return *s.infra, true
}

// RecordCluster stores the merged record of a created cluster.
func (s *State) RecordCluster(c *rds.Cluster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters[c.Identifier] = c
}

// Cluster returns the record of a cluster created in this context.
func (s *State) Cluster(identifier string) (*rds.Cluster, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clusters[identifier]
	return c, ok
}

// Clusters returns all recorded clusters ordered by identifier.
func (s *State) Clusters() []*rds.Cluster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*rds.Cluster, 0, len(s.clusters))
	for _, c := range s.clusters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Infra    rds.ControlPlane
	Observer Observer
	Timeouts *config.Timeouts
	PublicIP PublicIPSource
}

// NewContext creates a new provisioning context with a console observer,
// timeouts from the environment and a public IP resolver for cfg.
func NewContext(ctx context.Context, cfg *config.Config, infra rds.ControlPlane) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Infra:    infra,
		Observer: NewConsoleObserver(),
		Timeouts: config.LoadTimeouts(),
		PublicIP: netutil.NewPublicIPResolver(cfg.PublicIPURL, nil),
	}
}

// WithContext returns a shallow copy of c bound to ctx. The copy shares
// State, Infra and PublicIP with c.
func (c *Context) WithContext(ctx context.Context) *Context {
	cp := *c
	cp.Context = ctx
	return &cp
}

// WithObserver returns a shallow copy of c that reports through o.
func (c *Context) WithObserver(o Observer) *Context {
	cp := *c
	cp.Observer = o
	return &cp
}
