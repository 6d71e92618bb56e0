package rds

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
)

// DescribeSubnetGroup returns a DB subnet group by name.
func (c *Client) DescribeSubnetGroup(ctx context.Context, name string) (*SubnetGroup, error) {
	const op = "DescribeDBSubnetGroups"
	out, err := invoke(ctx, c, op, func(ctx context.Context) (*awsrds.DescribeDBSubnetGroupsOutput, error) {
		return c.rds.DescribeDBSubnetGroups(ctx, &awsrds.DescribeDBSubnetGroupsInput{
			DBSubnetGroupName: aws.String(name),
		})
	})
	if err != nil {
		return nil, err
	}
	if len(out.DBSubnetGroups) == 0 {
		return nil, notFound(op, CodeSubnetGroupNotFound, "DBSubnetGroup %s not found", name)
	}
	return subnetGroupFromSDK(&out.DBSubnetGroups[0]), nil
}

// CreateSubnetGroup creates a DB subnet group.
func (c *Client) CreateSubnetGroup(ctx context.Context, req CreateSubnetGroupRequest) (*SubnetGroup, error) {
	out, err := invoke(ctx, c, "CreateDBSubnetGroup", func(ctx context.Context) (*awsrds.CreateDBSubnetGroupOutput, error) {
		return c.rds.CreateDBSubnetGroup(ctx, &awsrds.CreateDBSubnetGroupInput{
			DBSubnetGroupName:        aws.String(req.Name),
			DBSubnetGroupDescription: aws.String(req.Description),
			SubnetIds:                req.SubnetIDs,
			Tags:                     rdsTags(req.Tags),
		})
	})
	if err != nil {
		return nil, err
	}
	if out.DBSubnetGroup == nil {
		return &SubnetGroup{Name: req.Name, Description: req.Description, SubnetIDs: req.SubnetIDs}, nil
	}
	return subnetGroupFromSDK(out.DBSubnetGroup), nil
}

// DeleteSubnetGroup deletes a DB subnet group. It fails with an
// invalid-state error while a cluster still uses the group.
func (c *Client) DeleteSubnetGroup(ctx context.Context, name string) error {
	_, err := invoke(ctx, c, "DeleteDBSubnetGroup", func(ctx context.Context) (*awsrds.DeleteDBSubnetGroupOutput, error) {
		return c.rds.DeleteDBSubnetGroup(ctx, &awsrds.DeleteDBSubnetGroupInput{
			DBSubnetGroupName: aws.String(name),
		})
	})
	return err
}

// ListSubnetGroups returns all DB subnet groups in the region.
func (c *Client) ListSubnetGroups(ctx context.Context) ([]*SubnetGroup, error) {
	var groups []*SubnetGroup

	p := awsrds.NewDescribeDBSubnetGroupsPaginator(c.rds, &awsrds.DescribeDBSubnetGroupsInput{})
	for p.HasMorePages() {
		page, err := invoke(ctx, c, "DescribeDBSubnetGroups", func(ctx context.Context) (*awsrds.DescribeDBSubnetGroupsOutput, error) {
			return p.NextPage(ctx)
		})
		if err != nil {
			return nil, err
		}
		for i := range page.DBSubnetGroups {
			groups = append(groups, subnetGroupFromSDK(&page.DBSubnetGroups[i]))
		}
	}
	return groups, nil
}
