package shared

import "errors"

// Error codes shared by every bounded context
const (
	CodeNotFound            = "NOT_FOUND"
	CodeForbidden           = "FORBIDDEN"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeTenantRequired      = "TENANT_REQUIRED"
	CodeAlreadyConverted    = "ALREADY_CONVERTED"
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodeDuplicateName       = "DUPLICATE_NAME"
	CodeValidation          = "VALIDATION_ERROR"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeInternal            = "INTERNAL_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrNotFound) matches any NOT_FOUND error regardless of message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrTenantRequired      = NewDomainError(CodeTenantRequired, "Tenant context is required")
	ErrAlreadyConverted    = NewDomainError(CodeAlreadyConverted, "Lead has already been converted")
	ErrDuplicateEmail      = NewDomainError(CodeDuplicateEmail, "A record with this email already exists")
	ErrDuplicateName       = NewDomainError(CodeDuplicateName, "A record with this name already exists")
	ErrValidation          = NewDomainError(CodeValidation, "Validation failed")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrInternal            = NewDomainError(CodeInternal, "An unexpected error occurred")
)

// NotFound returns a NOT_FOUND error naming the missing entity, e.g. "Lead not found"
func NotFound(entity string) *DomainError {
	return NewDomainError(CodeNotFound, entity+" not found")
}

// Validation returns a VALIDATION_ERROR with message
func Validation(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// CodeOf returns the domain code carried by err, or CodeInternal
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
