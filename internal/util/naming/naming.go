package naming

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// DefaultSubnetGroup is the subnet group name used when none is configured.
const DefaultSubnetGroup = "dbprov-subnets"

// maxIdentifierLength is the RDS limit for DB cluster identifiers.
const maxIdentifierLength = 63

var identifierPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

// Cluster returns the default cluster identifier for a test run.
func Cluster(testID string) string {
	return fmt.Sprintf("dbprov-%s", strings.ToLower(testID))
}

// SecurityGroup returns the security group name that accompanies a subnet group.
func SecurityGroup(subnetGroup string) string {
	return fmt.Sprintf("%s-access", subnetGroup)
}

// SubnetGroupDescription returns the description stored on created subnet groups.
func SubnetGroupDescription(subnetGroup string) string {
	return fmt.Sprintf("dbprov subnet group %s", subnetGroup)
}

// RecordKey returns the object key under which a cluster record is published.
func RecordKey(prefix, identifier string) string {
	return path.Join(prefix, identifier+".json")
}

// ValidateClusterIdentifier checks the RDS rules for DB cluster identifiers:
// 1 to 63 letters, digits or hyphens, starting with a letter, with no
// trailing hyphen and no two consecutive hyphens.
func ValidateClusterIdentifier(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("cluster identifier is required")
	case len(id) > maxIdentifierLength:
		return fmt.Errorf("cluster identifier %q exceeds %d characters", id, maxIdentifierLength)
	case !identifierPattern.MatchString(id):
		return fmt.Errorf("cluster identifier %q must start with a letter and contain only letters, digits and hyphens", id)
	case strings.HasSuffix(id, "-"):
		return fmt.Errorf("cluster identifier %q must not end with a hyphen", id)
	case strings.Contains(id, "--"):
		return fmt.Errorf("cluster identifier %q must not contain two consecutive hyphens", id)
	}
	return nil
}
