package rds

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/imamik/dbprov/internal/util/tags"
)

// ClusterStatus is a DB cluster lifecycle state. The provider reports more
// transient states (backing-up, modifying, ...) than the ones named here.
type ClusterStatus string

// Lifecycle states.
const (
	StatusCreating  ClusterStatus = "creating"
	StatusAvailable ClusterStatus = "available"
	StatusDeleting  ClusterStatus = "deleting"
	// StatusDeleted is never reported by the provider. It is the effective
	// status of a cluster that can no longer be found.
	StatusDeleted ClusterStatus = "deleted"
)

// Cluster is the observed state of a DB cluster. MasterPassword is never
// returned by the provider; it is only set on records merged with the spec.
type Cluster struct {
	Identifier         string            `json:"identifier"`
	ARN                string            `json:"arn,omitempty"`
	Status             ClusterStatus     `json:"status"`
	Endpoint           string            `json:"endpoint,omitempty"`
	ReaderEndpoint     string            `json:"reader_endpoint,omitempty"`
	Port               int32             `json:"port,omitempty"`
	Engine             string            `json:"engine"`
	EngineVersion      string            `json:"engine_version,omitempty"`
	AllocatedStorage   int32             `json:"allocated_storage,omitempty"`
	StorageType        string            `json:"storage_type,omitempty"`
	IOPS               int32             `json:"iops,omitempty"`
	InstanceClass      string            `json:"instance_class,omitempty"`
	SubnetGroup        string            `json:"subnet_group,omitempty"`
	SecurityGroupIDs   []string          `json:"security_group_ids,omitempty"`
	PubliclyAccessible bool              `json:"publicly_accessible"`
	DatabaseName       string            `json:"database_name,omitempty"`
	MasterUsername     string            `json:"master_username,omitempty"`
	MasterPassword     string            `json:"master_password,omitempty"`
	Tags               map[string]string `json:"tags,omitempty"`
}

// CreateClusterRequest holds all parameters for creating a DB cluster.
// Pointer fields are optional; nil leaves the choice to the provider.
type CreateClusterRequest struct {
	Identifier         string
	Engine             string
	EngineVersion      *string
	AllocatedStorage   *int32
	StorageType        *string
	IOPS               *int32
	InstanceClass      *string
	SubnetGroup        *string
	DatabaseName       *string
	Port               *int32
	MasterUsername     string
	MasterPassword     string
	PubliclyAccessible *bool
	SecurityGroupIDs   []string
	Tags               map[string]string
}

// SubnetGroup is a DB subnet group.
type SubnetGroup struct {
	Name        string
	Description string
	VPCID       string
	Status      string
	SubnetIDs   []string
}

// CreateSubnetGroupRequest holds the parameters for creating a DB subnet group.
type CreateSubnetGroupRequest struct {
	Name        string
	Description string
	SubnetIDs   []string
	Tags        map[string]string
}

// Network is the default VPC and its subnets.
type Network struct {
	VPCID     string
	SubnetIDs []string
}

// SecurityGroup is a VPC security group.
type SecurityGroup struct {
	ID          string
	Name        string
	VPCID       string
	Description string
	Tags        map[string]string
}

// CreateSecurityGroupRequest holds the parameters for creating a security group.
type CreateSecurityGroupRequest struct {
	Name        string
	Description string
	VPCID       string
	Tags        map[string]string
}

func clusterFromSDK(c *rdstypes.DBCluster) *Cluster {
	out := &Cluster{
		Identifier:         aws.ToString(c.DBClusterIdentifier),
		ARN:                aws.ToString(c.DBClusterArn),
		Status:             ClusterStatus(aws.ToString(c.Status)),
		Endpoint:           aws.ToString(c.Endpoint),
		ReaderEndpoint:     aws.ToString(c.ReaderEndpoint),
		Port:               aws.ToInt32(c.Port),
		Engine:             aws.ToString(c.Engine),
		EngineVersion:      aws.ToString(c.EngineVersion),
		AllocatedStorage:   aws.ToInt32(c.AllocatedStorage),
		StorageType:        aws.ToString(c.StorageType),
		IOPS:               aws.ToInt32(c.Iops),
		InstanceClass:      aws.ToString(c.DBClusterInstanceClass),
		SubnetGroup:        aws.ToString(c.DBSubnetGroup),
		PubliclyAccessible: aws.ToBool(c.PubliclyAccessible),
		DatabaseName:       aws.ToString(c.DatabaseName),
		MasterUsername:     aws.ToString(c.MasterUsername),
	}
	for _, sg := range c.VpcSecurityGroups {
		out.SecurityGroupIDs = append(out.SecurityGroupIDs, aws.ToString(sg.VpcSecurityGroupId))
	}
	if len(c.TagList) > 0 {
		out.Tags = make(map[string]string, len(c.TagList))
		for _, t := range c.TagList {
			out.Tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
		}
	}
	return out
}

func subnetGroupFromSDK(g *rdstypes.DBSubnetGroup) *SubnetGroup {
	out := &SubnetGroup{
		Name:        aws.ToString(g.DBSubnetGroupName),
		Description: aws.ToString(g.DBSubnetGroupDescription),
		VPCID:       aws.ToString(g.VpcId),
		Status:      aws.ToString(g.SubnetGroupStatus),
	}
	for _, s := range g.Subnets {
		out.SubnetIDs = append(out.SubnetIDs, aws.ToString(s.SubnetIdentifier))
	}
	return out
}

func securityGroupFromSDK(g *ec2types.SecurityGroup) *SecurityGroup {
	out := &SecurityGroup{
		ID:          aws.ToString(g.GroupId),
		Name:        aws.ToString(g.GroupName),
		VPCID:       aws.ToString(g.VpcId),
		Description: aws.ToString(g.Description),
	}
	if len(g.Tags) > 0 {
		out.Tags = make(map[string]string, len(g.Tags))
		for _, t := range g.Tags {
			out.Tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
		}
	}
	return out
}

// rdsTags converts a tag map to RDS tags in key order.
func rdsTags(m map[string]string) []rdstypes.Tag {
	if len(m) == 0 {
		return nil
	}
	out := make([]rdstypes.Tag, 0, len(m))
	for _, k := range tags.SortedKeys(m) {
		out = append(out, rdstypes.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}

// ec2Tags converts a tag map to EC2 tags in key order.
func ec2Tags(m map[string]string) []ec2types.Tag {
	if len(m) == 0 {
		return nil
	}
	out := make([]ec2types.Tag, 0, len(m))
	for _, k := range tags.SortedKeys(m) {
		out = append(out, ec2types.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}
