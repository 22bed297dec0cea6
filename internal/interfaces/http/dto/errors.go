package dto

import (
	"net/http"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
)

// Wire error codes. Domain codes (shared.Code*) map onto these with an
// ERR_ prefix, see NormalizeErrorCode.
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	ErrCodeInvalidID  = "ERR_INVALID_ID"

	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	ErrCodeUnauthorized   = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired   = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid   = "ERR_TOKEN_INVALID"
	ErrCodeForbidden      = "ERR_FORBIDDEN"
	ErrCodeTenantRequired = "ERR_TENANT_REQUIRED"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeDuplicateEmail      = "ERR_DUPLICATE_EMAIL"
	ErrCodeDuplicateName       = "ERR_DUPLICATE_NAME"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// editing or converting a lead that was already converted
	ErrCodeAlreadyConverted = "ERR_ALREADY_CONVERTED"
)

const wirePrefix = "ERR_"

var statusByCode = map[string]int{
	ErrCodeInternal:            http.StatusInternalServerError,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeInvalidID:           http.StatusBadRequest,
	ErrCodeTenantRequired:      http.StatusBadRequest,
	ErrCodeAlreadyConverted:    http.StatusBadRequest,
	ErrCodeRequestTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeTokenExpired:        http.StatusUnauthorized,
	ErrCodeTokenInvalid:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeDuplicateEmail:      http.StatusConflict,
	ErrCodeDuplicateName:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
}

// domain codes whose wire name is not just the prefixed domain code
var renamedDomainCodes = map[string]string{
	shared.CodeValidation: ErrCodeValidation,
	shared.CodeInternal:   ErrCodeInternal,
}

// GetHTTPStatus returns the status for a wire code; unknown codes are 500
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode turns a domain error code into its wire form. Wire
// codes and codes without a registered wire form are returned unchanged.
func NormalizeErrorCode(code string) string {
	if wire, ok := renamedDomainCodes[code]; ok {
		return wire
	}
	if strings.HasPrefix(code, wirePrefix) {
		return code
	}
	if _, ok := statusByCode[wirePrefix+code]; ok {
		return wirePrefix + code
	}
	return code
}
