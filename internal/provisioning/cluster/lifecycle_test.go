package cluster

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/dbprov/internal/config"
	"github.com/imamik/dbprov/internal/platform/dbprobe"
	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning"
	testutil "github.com/imamik/dbprov/internal/testing"
	"github.com/imamik/dbprov/internal/util/retry"
	"github.com/imamik/dbprov/internal/util/tags"
)

var _ = Describe("Cluster lifecycle", func() {
	var (
		fake *testutil.FakeControlPlane
		cfg  *config.Config
		pctx *provisioning.Context
		p    *Provisioner
	)

	BeforeEach(func() {
		fake = testutil.NewFakeControlPlane()
		cfg = testutil.NewConfigBuilder().WithTestID("t1").Build()
		pctx = testutil.NewContext(GinkgoT(), cfg, fake)
		p = NewProvisioner()
	})

	Describe("AwaitStatus", func() {
		It("returns once the cluster reaches the target after exactly three queries", func() {
			fake.AddCluster(&rds.Cluster{Identifier: "db-1"},
				rds.StatusCreating, rds.StatusCreating, rds.StatusAvailable)

			id, err := p.AwaitStatus(pctx, rds.StatusAvailable, "db-1")

			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("db-1"))
			Expect(fake.Calls("DescribeCluster")).To(Equal(3))
			Expect(testutil.Observer(pctx).EventsOfType(provisioning.EventStatusReached)).To(HaveLen(1))
		})

		It("treats a missing cluster as deleted", func() {
			id, err := p.AwaitStatus(pctx, rds.StatusDeleted, "never-created")

			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("never-created"))
			Expect(fake.Calls("DescribeCluster")).To(Equal(1))
		})

		It("follows a deletion through deleting until the cluster is gone", func() {
			fake.AddCluster(&rds.Cluster{Identifier: "db-1", Status: rds.StatusAvailable})
			Expect(fake.DeleteCluster(pctx, "db-1")).To(Succeed())

			id, err := p.AwaitStatus(pctx, rds.StatusDeleted, "db-1")

			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("db-1"))
			Expect(fake.Calls("DescribeCluster")).To(Equal(2))
			Expect(fake.HasCluster("db-1")).To(BeFalse())
		})

		It("times out with the last observed status", func() {
			fake.AddCluster(&rds.Cluster{Identifier: "db-1", Status: rds.StatusCreating})
			pctx.Timeouts.ClusterCreate = 50 * time.Millisecond
			pctx.Timeouts.ClusterPoll = 5 * time.Millisecond

			_, err := p.AwaitStatus(pctx, rds.StatusAvailable, "db-1")

			Expect(err).To(MatchError(retry.ErrTimeout))
			var waiting *WaitingForStatusError
			Expect(errors.As(err, &waiting)).To(BeTrue())
			Expect(waiting.Identifier).To(Equal("db-1"))
			Expect(waiting.Expected).To(Equal(rds.StatusAvailable))
			Expect(waiting.Actual).To(Equal(rds.StatusCreating))
		})

		It("uses the delete timeout when waiting for deletion", func() {
			fake.AddCluster(&rds.Cluster{Identifier: "db-1", Status: rds.StatusDeleting})
			pctx.Timeouts.ClusterCreate = time.Hour
			pctx.Timeouts.ClusterDelete = 30 * time.Millisecond
			pctx.Timeouts.ClusterPoll = 5 * time.Millisecond

			start := time.Now()
			_, err := p.AwaitStatus(pctx, rds.StatusDeleted, "db-1")

			Expect(err).To(MatchError(retry.ErrTimeout))
			Expect(time.Since(start)).To(BeNumerically("<", time.Second))
		})

		It("retries describe failures", func() {
			var calls atomic.Int32
			mock := &rds.MockClient{
				DescribeClusterFunc: func(context.Context, string) (*rds.Cluster, error) {
					if calls.Add(1) == 1 {
						return nil, testutil.ProviderFault("DescribeDBClusters", "InternalFailure")
					}
					return &rds.Cluster{Identifier: "db-1", Status: rds.StatusAvailable}, nil
				},
			}
			pctx.Infra = mock

			id, err := p.AwaitStatus(pctx, rds.StatusAvailable, "db-1")

			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("db-1"))
			Expect(calls.Load()).To(Equal(int32(2)))
		})

		It("stops at once when the context is cancelled", func() {
			fake.AddCluster(&rds.Cluster{Identifier: "db-1", Status: rds.StatusCreating})
			ctx, cancel := context.WithCancel(pctx)
			cancel()

			_, err := p.AwaitStatus(pctx.WithContext(ctx), rds.StatusAvailable, "db-1")

			Expect(err).To(MatchError(retry.ErrInterrupted))
			Expect(err).NotTo(MatchError(retry.ErrTimeout))
		})
	})

	Describe("Status", func() {
		It("reports the observed status", func() {
			fake.AddCluster(&rds.Cluster{Identifier: "db-1", Status: rds.StatusAvailable})

			Expect(p.Status(pctx, "db-1")).To(Equal(rds.StatusAvailable))
		})

		It("reports deleted for a missing cluster", func() {
			Expect(p.Status(pctx, "db-404")).To(Equal(rds.StatusDeleted))
		})

		It("surfaces other describe failures", func() {
			fake.DescribeClusterErrs["db-1"] = testutil.ProviderFault("DescribeDBClusters", "AccessDenied")

			_, err := p.Status(pctx, "db-1")

			Expect(err).To(MatchError(ContainSubstring("failed to describe cluster db-1")))
		})
	})

	Describe("Create", func() {
		It("ensures infrastructure, creates the cluster and returns the merged record", func() {
			record, err := p.Create(pctx, cfg.Cluster)

			Expect(err).NotTo(HaveOccurred())
			Expect(record.Identifier).To(Equal("dbprov-t1"))
			Expect(record.Status).To(Equal(rds.StatusAvailable))
			Expect(record.MasterPassword).To(Equal(testutil.TestPassword))
			Expect(record.Endpoint).NotTo(BeEmpty())
			Expect(record.Port).To(Equal(int32(5432)))
			Expect(record.Tags).To(HaveKeyWithValue(tags.KeyManagedBy, tags.ManagedByDBProv))
			Expect(record.Tags).To(HaveKeyWithValue(tags.KeyCluster, "dbprov-t1"))
			Expect(record.Tags).To(HaveKeyWithValue(tags.KeyTestID, "t1"))

			Expect(fake.HasSubnetGroup("dbprov-subnets")).To(BeTrue())
			requests := fake.CreateRequests()
			Expect(requests).To(HaveLen(1))
			Expect(*requests[0].SubnetGroup).To(Equal("dbprov-subnets"))
			Expect(*requests[0].StorageType).To(Equal("io1"))
			Expect(*requests[0].IOPS).To(Equal(int32(1000)))
			Expect(*requests[0].PubliclyAccessible).To(BeTrue())
			Expect(requests[0].EngineVersion).To(BeNil())
			Expect(requests[0].SecurityGroupIDs).To(BeEmpty())

			stored, ok := pctx.State.Cluster("dbprov-t1")
			Expect(ok).To(BeTrue())
			Expect(stored).To(Equal(record))
		})

		It("attaches the ensured security group", func() {
			cfg = testutil.NewConfigBuilder().WithSecurityGroup(true).Build()
			pctx = testutil.NewContext(GinkgoT(), cfg, fake)

			_, err := p.Create(pctx, cfg.Cluster)

			Expect(err).NotTo(HaveOccurred())
			infra, _ := pctx.State.Infrastructure()
			Expect(fake.CreateRequests()[0].SecurityGroupIDs).To(Equal([]string{infra.SecurityGroup.ID}))
		})

		It("places a spec without a subnet group into the ensured one", func() {
			cfg = testutil.NewConfigBuilder().WithTestID("t1").WithSubnetGroup("custom-subnets").Build()
			pctx = testutil.NewContext(GinkgoT(), cfg, fake)

			_, err := p.Create(pctx, config.ClusterSpec{Identifier: "db-bare", MasterPassword: testutil.TestPassword})

			Expect(err).NotTo(HaveOccurred())
			Expect(fake.HasSubnetGroup("custom-subnets")).To(BeTrue())
			Expect(fake.HasSubnetGroup("dbprov-subnets")).To(BeFalse())
			Expect(*fake.CreateRequests()[0].SubnetGroup).To(Equal("custom-subnets"))
		})

		It("keeps a subnet group named by the spec", func() {
			spec := cfg.Cluster
			spec.SubnetGroup = "shared-subnets"

			_, err := p.Create(pctx, spec)

			Expect(err).NotTo(HaveOccurred())
			Expect(*fake.CreateRequests()[0].SubnetGroup).To(Equal("shared-subnets"))
		})

		It("reuses infrastructure already in the context", func() {
			_, err := p.Create(pctx, cfg.Cluster)
			Expect(err).NotTo(HaveOccurred())

			spec := cfg.Cluster
			spec.Identifier = "dbprov-t1-b"
			_, err = p.Create(pctx, spec)

			Expect(err).NotTo(HaveOccurred())
			Expect(fake.Calls("DefaultNetwork")).To(Equal(1))
			Expect(pctx.State.Clusters()).To(HaveLen(2))
		})

		It("rejects an invalid spec before touching the control plane", func() {
			spec := cfg.Cluster
			spec.Engine = "oracle"

			_, err := p.Create(pctx, spec)

			Expect(err).To(MatchError(ContainSubstring("invalid cluster spec")))
			Expect(fake.Calls("DefaultNetwork")).To(BeZero())
			Expect(fake.Calls("CreateCluster")).To(BeZero())
		})

		It("surfaces a rejected create request", func() {
			fake.CreateClusterErr = testutil.ProviderFault("CreateDBCluster", "InvalidParameterCombination")

			_, err := p.Create(pctx, cfg.Cluster)

			Expect(err).To(MatchError(ContainSubstring("failed to create cluster dbprov-t1")))
			Expect(pctx.State.Clusters()).To(BeEmpty())
		})

		It("leaves a cluster that never became available in place", func() {
			fake.CreateScript = []rds.ClusterStatus{rds.StatusCreating}
			pctx.Timeouts.ClusterCreate = 30 * time.Millisecond
			pctx.Timeouts.ClusterPoll = 5 * time.Millisecond

			_, err := p.Create(pctx, cfg.Cluster)

			Expect(err).To(MatchError(retry.ErrTimeout))
			Expect(fake.HasCluster("dbprov-t1")).To(BeTrue())
			Expect(pctx.State.Clusters()).To(BeEmpty())
		})

		It("waits for connectivity when configured", func() {
			var pinged atomic.Int32
			cfg.WaitForConnection = true
			p = NewProvisioner(WithPing(func(context.Context, dbprobe.Target, time.Duration) error {
				if pinged.Add(1) < 2 {
					return errors.New("connection refused")
				}
				return nil
			}))

			_, err := p.Create(pctx, cfg.Cluster)

			Expect(err).NotTo(HaveOccurred())
			Expect(pinged.Load()).To(Equal(int32(2)))
		})
	})

	Describe("Delete", func() {
		It("waits until the cluster is gone", func() {
			fake.AddCluster(&rds.Cluster{Identifier: "db-1", Status: rds.StatusAvailable})

			Expect(p.Delete(pctx, "db-1", true)).To(Succeed())

			Expect(fake.HasCluster("db-1")).To(BeFalse())
			Expect(testutil.Observer(pctx).EventsOfType(provisioning.EventResourceDeleted)).To(HaveLen(1))
		})

		It("does not wait unless asked", func() {
			fake.AddCluster(&rds.Cluster{Identifier: "db-1", Status: rds.StatusAvailable})

			Expect(p.Delete(pctx, "db-1", false)).To(Succeed())

			Expect(fake.Calls("DescribeCluster")).To(BeZero())
			Expect(fake.HasCluster("db-1")).To(BeTrue())
		})

		It("treats a missing cluster as deleted", func() {
			Expect(p.Delete(pctx, "db-404", true)).To(Succeed())
		})

		It("surfaces an invalid-state conflict", func() {
			fake.AddCluster(&rds.Cluster{Identifier: "db-1", Status: rds.StatusCreating})
			fake.DeleteClusterErrs["db-1"] = testutil.ProviderFault("DeleteDBCluster", rds.CodeInvalidClusterState)

			err := p.Delete(pctx, "db-1", true)

			Expect(err).To(MatchError(rds.ErrInvalidState))
		})
	})
})
