// Package domain defines the core domain model for tokclaim.
package domain

import (
	"errors"
	"fmt"
)

// DomainError is a business or infrastructure error with a stable code.
//
// Codes have the form TC-<AREA>-<NNNN>; the numeric part mirrors the HTTP
// status family the error maps to (4xxx caller errors, 5xxx faults).
type DomainError struct {
	Code    string
	Message string
	Details string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the code from a DomainError, or "" otherwise.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Token errors.
var (
	// ErrInvalidToken means normalization produced an empty or malformed token.
	ErrInvalidToken = NewDomainError("TC-TOKN-4000", "invalid token")
)

// Authentication errors.
var (
	ErrAPIKeyMissing     = NewDomainError("TC-AUTH-4010", "api key not provided")
	ErrAPIKeyInvalid     = NewDomainError("TC-AUTH-4011", "invalid api key")
	ErrPermissionDenied  = NewDomainError("TC-AUTH-4030", "permission denied")
	ErrIPNotAllowed      = NewDomainError("TC-AUTH-4031", "client ip not allowed")
	ErrRequesterRequired = NewDomainError("TC-AUTH-4001", "requester identity required")
)

// System errors.
var (
	ErrInternalServer = NewDomainError("TC-SYS-5000", "internal server error")

	// ErrPersistenceFailure means the durable write did not complete. The
	// operation had no effect and may be retried by a human.
	ErrPersistenceFailure = NewDomainError("TC-SYS-5001", "persistence failure")

	ErrStoreClosed = NewDomainError("TC-SYS-5030", "claim store closed")
	ErrBadRequest  = NewDomainError("TC-SYS-4000", "bad request")
	ErrRateLimited = NewDomainError("TC-SYS-4290", "too many requests")
)
