package rds

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/dbprov/internal/util/tags"
)

// DescribeSecurityGroup returns the security group with the given name in a VPC.
func (c *Client) DescribeSecurityGroup(ctx context.Context, vpcID, name string) (*SecurityGroup, error) {
	const op = "DescribeSecurityGroups"
	out, err := invoke(ctx, c, op, func(ctx context.Context) (*ec2.DescribeSecurityGroupsOutput, error) {
		return c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
			Filters: []ec2types.Filter{
				filter("group-name", name),
				filter("vpc-id", vpcID),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	if len(out.SecurityGroups) == 0 {
		return nil, notFound(op, CodeSecurityGroupNotFound, "security group %s not found in %s", name, vpcID)
	}
	return securityGroupFromSDK(&out.SecurityGroups[0]), nil
}

// CreateSecurityGroup creates a security group in a VPC. The group starts
// with no ingress rules.
func (c *Client) CreateSecurityGroup(ctx context.Context, req CreateSecurityGroupRequest) (*SecurityGroup, error) {
	input := &ec2.CreateSecurityGroupInput{
		GroupName:   aws.String(req.Name),
		Description: aws.String(req.Description),
		VpcId:       aws.String(req.VPCID),
	}
	if len(req.Tags) > 0 {
		input.TagSpecifications = []ec2types.TagSpecification{{
			ResourceType: ec2types.ResourceTypeSecurityGroup,
			Tags:         ec2Tags(req.Tags),
		}}
	}

	out, err := invoke(ctx, c, "CreateSecurityGroup", func(ctx context.Context) (*ec2.CreateSecurityGroupOutput, error) {
		return c.ec2.CreateSecurityGroup(ctx, input)
	})
	if err != nil {
		return nil, err
	}
	return &SecurityGroup{
		ID:          aws.ToString(out.GroupId),
		Name:        req.Name,
		VPCID:       req.VPCID,
		Description: req.Description,
		Tags:        req.Tags,
	}, nil
}

// AuthorizeIngress allows TCP traffic on port from cidr.
func (c *Client) AuthorizeIngress(ctx context.Context, groupID string, port int32, cidr string) error {
	_, err := invoke(ctx, c, "AuthorizeSecurityGroupIngress", func(ctx context.Context) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
		return c.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId: aws.String(groupID),
			IpPermissions: []ec2types.IpPermission{{
				IpProtocol: aws.String("tcp"),
				FromPort:   aws.Int32(port),
				ToPort:     aws.Int32(port),
				IpRanges: []ec2types.IpRange{{
					CidrIp:      aws.String(cidr),
					Description: aws.String("dbprov database access"),
				}},
			}},
		})
	})
	if IsDuplicate(err) {
		return nil
	}
	return err
}

// DeleteSecurityGroup deletes a security group. It fails with an
// invalid-state error while a network interface still references the group.
func (c *Client) DeleteSecurityGroup(ctx context.Context, groupID string) error {
	_, err := invoke(ctx, c, "DeleteSecurityGroup", func(ctx context.Context) (*ec2.DeleteSecurityGroupOutput, error) {
		return c.ec2.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{
			GroupId: aws.String(groupID),
		})
	})
	return err
}

// ListSecurityGroups returns the security groups carrying all the given tags.
func (c *Client) ListSecurityGroups(ctx context.Context, tagFilter map[string]string) ([]*SecurityGroup, error) {
	input := &ec2.DescribeSecurityGroupsInput{}
	for _, k := range tags.SortedKeys(tagFilter) {
		input.Filters = append(input.Filters, filter("tag:"+k, tagFilter[k]))
	}

	var groups []*SecurityGroup
	p := ec2.NewDescribeSecurityGroupsPaginator(c.ec2, input)
	for p.HasMorePages() {
		page, err := invoke(ctx, c, "DescribeSecurityGroups", func(ctx context.Context) (*ec2.DescribeSecurityGroupsOutput, error) {
			return p.NextPage(ctx)
		})
		if err != nil {
			return nil, err
		}
		for i := range page.SecurityGroups {
			groups = append(groups, securityGroupFromSDK(&page.SecurityGroups[i]))
		}
	}
	return groups, nil
}
