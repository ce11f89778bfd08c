package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code and message,
// so wrapped sentinels still match with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// ClientError reports whether the error is caused by the request rather than the server.
func (e *DomainError) ClientError() bool {
	switch e.Code {
	case ErrCodeValidation, ErrCodeNotFound, ErrCodeAlreadyExists:
		return true
	}
	return false
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeRetrievalFailure  = "UPSTREAM_RETRIEVAL_FAILURE"
	ErrCodeGenerationFailure = "UPSTREAM_GENERATION_FAILURE"
	ErrCodeProjectionSync    = "PROJECTION_SYNC_FAILURE"
)

// Validation errors
var (
	ErrInvalidKeywords      = NewDomainError(ErrCodeValidation, "keywords must be a non-empty list of strings")
	ErrInvalidAnswer        = NewDomainError(ErrCodeValidation, "answer must be a non-empty string")
	ErrEmptyQuestion        = NewDomainError(ErrCodeValidation, "question must be a non-empty string")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrKnowledgeNotFound  = NewDomainError(ErrCodeNotFound, "knowledge item not found")
	ErrUnansweredNotFound = NewDomainError(ErrCodeNotFound, "unanswered question not found")
)

// Already exists errors
var (
	ErrKnowledgeAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "knowledge item already exists")
)

// Upstream errors
var (
	ErrRetrievalFailed  = NewDomainError(ErrCodeRetrievalFailure, "vector index query failed")
	ErrGenerationFailed = NewDomainError(ErrCodeGenerationFailure, "text generation failed")
	ErrProjectionSync   = NewDomainError(ErrCodeProjectionSync, "vector index sync failed")
)

// Vector index adapter errors
var (
	ErrVectorDocumentExists = errors.New("vector document already exists")
	ErrVectorIndexDisabled  = errors.New("vector index is disabled")
)

// GenerationFailed wraps a text generation error so it matches ErrGenerationFailed.
func GenerationFailed(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeGenerationFailure, ErrGenerationFailed.Message, err)
}

// ProjectionSyncFailed wraps a vector index write error for the given document.
func ProjectionSyncFailed(op, documentID string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeProjectionSync, fmt.Sprintf("vector index %s failed for %s", op, documentID), err)
}

// ErrorCode returns the code of the first DomainError in err's chain, or "" if none.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
