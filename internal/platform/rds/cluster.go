package rds

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
)

// DescribeCluster returns the observed state of a DB cluster.
func (c *Client) DescribeCluster(ctx context.Context, identifier string) (*Cluster, error) {
	const op = "DescribeDBClusters"
	out, err := invoke(ctx, c, op, func(ctx context.Context) (*awsrds.DescribeDBClustersOutput, error) {
		return c.rds.DescribeDBClusters(ctx, &awsrds.DescribeDBClustersInput{
			DBClusterIdentifier: aws.String(identifier),
		})
	})
	if err != nil {
		return nil, err
	}
	if len(out.DBClusters) == 0 {
		return nil, notFound(op, CodeClusterNotFound, "DBCluster %s not found", identifier)
	}
	return clusterFromSDK(&out.DBClusters[0]), nil
}

// CreateCluster submits a create request for a Multi-AZ DB cluster.
func (c *Client) CreateCluster(ctx context.Context, req CreateClusterRequest) (*Cluster, error) {
	input := &awsrds.CreateDBClusterInput{
		DBClusterIdentifier:    aws.String(req.Identifier),
		Engine:                 aws.String(req.Engine),
		EngineVersion:          req.EngineVersion,
		AllocatedStorage:       req.AllocatedStorage,
		StorageType:            req.StorageType,
		Iops:                   req.IOPS,
		DBClusterInstanceClass: req.InstanceClass,
		DBSubnetGroupName:      req.SubnetGroup,
		DatabaseName:           req.DatabaseName,
		Port:                   req.Port,
		MasterUsername:         aws.String(req.MasterUsername),
		MasterUserPassword:     aws.String(req.MasterPassword),
		PubliclyAccessible:     req.PubliclyAccessible,
		VpcSecurityGroupIds:    req.SecurityGroupIDs,
		Tags:                   rdsTags(req.Tags),
	}

	out, err := invoke(ctx, c, "CreateDBCluster", func(ctx context.Context) (*awsrds.CreateDBClusterOutput, error) {
		return c.rds.CreateDBCluster(ctx, input)
	})
	if err != nil {
		return nil, err
	}
	if out.DBCluster == nil {
		return &Cluster{Identifier: req.Identifier, Status: StatusCreating, Engine: req.Engine}, nil
	}
	return clusterFromSDK(out.DBCluster), nil
}

// DeleteCluster submits a delete request, skipping the final snapshot.
func (c *Client) DeleteCluster(ctx context.Context, identifier string) error {
	_, err := invoke(ctx, c, "DeleteDBCluster", func(ctx context.Context) (*awsrds.DeleteDBClusterOutput, error) {
		return c.rds.DeleteDBCluster(ctx, &awsrds.DeleteDBClusterInput{
			DBClusterIdentifier: aws.String(identifier),
			SkipFinalSnapshot:   aws.Bool(true),
		})
	})
	return err
}

// ListClusters returns all DB clusters in the region.
func (c *Client) ListClusters(ctx context.Context) ([]*Cluster, error) {
	const op = "DescribeDBClusters"
	var clusters []*Cluster

	p := awsrds.NewDescribeDBClustersPaginator(c.rds, &awsrds.DescribeDBClustersInput{})
	for p.HasMorePages() {
		page, err := invoke(ctx, c, op, func(ctx context.Context) (*awsrds.DescribeDBClustersOutput, error) {
			return p.NextPage(ctx)
		})
		if err != nil {
			return nil, err
		}
		for i := range page.DBClusters {
			clusters = append(clusters, clusterFromSDK(&page.DBClusters[i]))
		}
	}
	return clusters, nil
}
