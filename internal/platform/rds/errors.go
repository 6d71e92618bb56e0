package rds

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Sentinels matched by errors.Is against a *ProviderError of the same Kind.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidState = errors.New("resource in invalid state")
	ErrDuplicate    = errors.New("resource already exists")
)

// Kind classifies a provider fault by the control flow it drives.
type Kind int

// Fault kinds.
const (
	KindOther Kind = iota
	KindNotFound
	// KindInvalidState covers "still referenced" and "busy" conflicts, such
	// as deleting a subnet group a cluster still uses.
	KindInvalidState
	KindDuplicate
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindInvalidState:
		return "invalid-state"
	case KindDuplicate:
		return "duplicate"
	default:
		return "other"
	}
}

// Provider error codes with a meaning to callers.
const (
	CodeClusterNotFound          = "DBClusterNotFoundFault"
	CodeSubnetGroupNotFound      = "DBSubnetGroupNotFoundFault"
	CodeSecurityGroupNotFound    = "InvalidGroup.NotFound"
	CodeVPCNotFound              = "InvalidVpcID.NotFound"
	CodeInvalidSubnetGroupState  = "InvalidDBSubnetGroupStateFault"
	CodeInvalidClusterState      = "InvalidDBClusterStateFault"
	CodeDependencyViolation      = "DependencyViolation"
	CodeDuplicatePermission      = "InvalidPermission.Duplicate"
	CodeClusterAlreadyExists     = "DBClusterAlreadyExistsFault"
	CodeSubnetGroupAlreadyExists = "DBSubnetGroupAlreadyExists"
	CodeDuplicateSecurityGroup   = "InvalidGroup.Duplicate"
)

var kindByCode = map[string]Kind{
	CodeClusterNotFound:          KindNotFound,
	CodeSubnetGroupNotFound:      KindNotFound,
	CodeSecurityGroupNotFound:    KindNotFound,
	CodeVPCNotFound:              KindNotFound,
	CodeInvalidSubnetGroupState:  KindInvalidState,
	CodeInvalidClusterState:      KindInvalidState,
	CodeDependencyViolation:      KindInvalidState,
	CodeDuplicatePermission:      KindDuplicate,
	CodeClusterAlreadyExists:     KindDuplicate,
	CodeSubnetGroupAlreadyExists: KindDuplicate,
	CodeDuplicateSecurityGroup:   KindDuplicate,
}

// throttlingCodes are transient and retried inside invoke.
var throttlingCodes = map[string]bool{
	"Throttling":               true,
	"ThrottlingException":      true,
	"RequestLimitExceeded":     true,
	"TooManyRequestsException": true,
}

// ProviderError is a normalized AWS API fault.
type ProviderError struct {
	// Op is the API operation that failed, e.g. "DescribeDBClusters".
	Op string
	// Fault tells whether the caller or the service is to blame.
	Fault   smithy.ErrorFault
	Code    string
	Message string
	// Err is the SDK error, nil for synthesized errors.
	Err error
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Kind classifies the error code.
func (e *ProviderError) Kind() Kind {
	return kindByCode[e.Code]
}

// Is matches the kind sentinels.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind() == KindNotFound
	case ErrInvalidState:
		return e.Kind() == KindInvalidState
	case ErrDuplicate:
		return e.Kind() == KindDuplicate
	}
	return false
}

// KindOf returns the Kind of the first *ProviderError in err's chain, or
// KindOther.
func KindOf(err error) Kind {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Kind()
	}
	return KindOther
}

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidState checks if an error indicates a resource is still in use or busy.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsDuplicate checks if an error indicates a resource or rule already exists.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// normalize converts an SDK error to a *ProviderError. Errors that are not
// API faults (transport failures, cancellation) are returned unchanged.
func normalize(op string, err error) error {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return err
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return &ProviderError{
		Op:      op,
		Fault:   apiErr.ErrorFault(),
		Code:    apiErr.ErrorCode(),
		Message: apiErr.ErrorMessage(),
		Err:     err,
	}
}

// notFound synthesizes the fault a keyed describe would have returned for an
// empty filtered result.
func notFound(op, code, format string, args ...any) *ProviderError {
	return &ProviderError{
		Op:      op,
		Fault:   smithy.FaultClient,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func isThrottling(err error) bool {
	var perr *ProviderError
	return errors.As(err, &perr) && throttlingCodes[perr.Code]
}
