package rds

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// DefaultNetwork returns the region's default VPC and all of its subnets,
// sorted by ID.
func (c *Client) DefaultNetwork(ctx context.Context) (*Network, error) {
	const op = "DescribeVpcs"
	vpcs, err := invoke(ctx, c, op, func(ctx context.Context) (*ec2.DescribeVpcsOutput, error) {
		return c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
			Filters: []ec2types.Filter{filter("is-default", "true")},
		})
	})
	if err != nil {
		return nil, err
	}
	if len(vpcs.Vpcs) == 0 {
		return nil, notFound(op, CodeVPCNotFound, "no default VPC in region %s", c.region)
	}
	vpcID := aws.ToString(vpcs.Vpcs[0].VpcId)

	var subnetIDs []string
	p := ec2.NewDescribeSubnetsPaginator(c.ec2, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{filter("vpc-id", vpcID)},
	})
	for p.HasMorePages() {
		page, err := invoke(ctx, c, "DescribeSubnets", func(ctx context.Context) (*ec2.DescribeSubnetsOutput, error) {
			return p.NextPage(ctx)
		})
		if err != nil {
			return nil, err
		}
		for _, s := range page.Subnets {
			subnetIDs = append(subnetIDs, aws.ToString(s.SubnetId))
		}
	}
	sort.Strings(subnetIDs)

	return &Network{VPCID: vpcID, SubnetIDs: subnetIDs}, nil
}

func filter(name string, values ...string) ec2types.Filter {
	return ec2types.Filter{Name: aws.String(name), Values: values}
}
