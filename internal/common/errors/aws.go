// internal/common/errors/aws.go
package errors

import (
	"errors"

	"github.com/aws/smithy-go"
)

// awsConflictCodes are the service error codes that mean "the resource is
// already there"; Ensure* callers treat these as success.
var awsConflictCodes = map[string]bool{
	"ConflictException":            true,
	"ResourceInUseException":       true,
	"AlreadyExistsException":       true,
	"BucketAlreadyOwnedByYou":      true,
	"BucketAlreadyExists":          true,
	"EntityAlreadyExistsException": true,
}

var awsThrottleCodes = map[string]bool{
	"ThrottlingException":                    true,
	"TooManyRequestsException":               true,
	"ProvisionedThroughputExceededException": true,
	"ServiceQuotaExceededException":          true,
	"SlowDown":                               true,
}

var awsNotFoundCodes = map[string]bool{
	"ResourceNotFoundException": true,
	"NotFoundException":         true,
	"NoSuchBucket":              true,
	"NoSuchKey":                 true,
}

// FromAWS maps a raw SDK error onto the workbench taxonomy. Transient
// service-side failures come back retryable, everything else does not.
func FromAWS(op string, err error) *StandardError {
	if err == nil {
		return nil
	}

	var se *StandardError
	if errors.As(err, &se) {
		return se
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		code := ae.ErrorCode()
		switch {
		case awsConflictCodes[code]:
			return NewResourceExistsError(op, err)
		case awsThrottleCodes[code]:
			return Wrap(ErrCodeThrottled, op+" throttled by service", true, err)
		case awsNotFoundCodes[code]:
			return Wrap(ErrCodeResourceNotFound, op+" target not found", false, err)
		case code == "AccessDeniedException" || code == "AccessDenied":
			return Wrap(ErrCodeAccessDenied, op+" denied", false, err)
		case code == "ValidationException" || code == "ValidationError":
			return Wrap(ErrCodeValidationFailed, op+" rejected by service validation", false, err)
		case code == "InternalServerException" || code == "ServiceUnavailableException":
			return Wrap(ErrCodeServiceFailure, op+" failed inside the service", true, err)
		}
	}

	return Wrap(ErrCodeServiceFailure, op+" failed", false, err)
}

// IsResourceExists reports whether err is the tolerated "already exists" case.
func IsResourceExists(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code == ErrCodeResourceExists
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return awsConflictCodes[ae.ErrorCode()]
	}
	return false
}

// IsRetryable reports whether the failure class is worth another attempt.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}
