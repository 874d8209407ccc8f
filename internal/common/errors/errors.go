// Package errors provides standardized error handling for the workbench's
// managed-service calls.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	ErrCodeResourceExists   ErrorCode = "RESOURCE_EXISTS"
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"

	ErrCodeThrottled        ErrorCode = "THROTTLED"
	ErrCodeAccessDenied     ErrorCode = "ACCESS_DENIED"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeServiceFailure   ErrorCode = "SERVICE_FAILURE"

	ErrCodeIngestionFailed  ErrorCode = "INGESTION_FAILED"
	ErrCodeIngestionTimeout ErrorCode = "INGESTION_TIMEOUT"

	ErrCodeRetrievalFailed  ErrorCode = "RETRIEVAL_FAILED"
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	ErrCodeGuardrailBlocked ErrorCode = "GUARDRAIL_BLOCKED"

	ErrCodeAgentInvokeFailed ErrorCode = "AGENT_INVOKE_FAILED"
	ErrCodeNoCollaborator    ErrorCode = "NO_COLLABORATOR"

	ErrCodeQueryFailed    ErrorCode = "QUERY_FAILED"
	ErrCodeQueryCancelled ErrorCode = "QUERY_CANCELLED"
	ErrCodeQueryTimeout   ErrorCode = "QUERY_TIMEOUT"

	ErrCodeArchiveFailed ErrorCode = "ARCHIVE_FAILED"
	ErrCodeHistoryFailed ErrorCode = "HISTORY_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is lets callers match by code: errors.Is(err, &StandardError{Code: ErrCodeResourceExists}).
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ==========================
// 2. Error Constructors
// ==========================

// New creates a StandardError with an explicit code and message.
func New(code ErrorCode, message string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// Wrap creates a StandardError that carries the underlying cause.
func Wrap(code ErrorCode, message string, retryable bool, cause error) *StandardError {
	e := New(code, message, retryable)
	e.cause = cause
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// NewResourceExistsError marks a create call that found the resource already
// present. Tolerated by the Ensure* flows, never retried.
func NewResourceExistsError(resource string, cause error) *StandardError {
	e := Wrap(ErrCodeResourceExists, fmt.Sprintf("%s already exists", resource), false, cause)
	e.Metadata = map[string]interface{}{"resource": resource}
	return e
}

// NewIngestionFailedError carries the remote job's failure reasons.
func NewIngestionFailedError(jobID string, reasons []string) *StandardError {
	e := New(ErrCodeIngestionFailed, "ingestion job reached FAILED state", false)
	e.Metadata = map[string]interface{}{
		"jobId":   jobID,
		"reasons": reasons,
	}
	return e
}

// NewQueryFailedError carries the engine's state change reason.
func NewQueryFailedError(queryID, reason string) *StandardError {
	e := New(ErrCodeQueryFailed, "query execution reached FAILED state", false)
	e.Details = reason
	e.Metadata = map[string]interface{}{"queryExecutionId": queryID}
	return e
}

// NewGuardrailBlockedError marks a generation the guardrail intervened on.
func NewGuardrailBlockedError(message string) *StandardError {
	return New(ErrCodeGuardrailBlocked, message, false)
}
