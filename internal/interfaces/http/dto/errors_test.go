package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTenantRequired, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeDuplicateEmail, http.StatusConflict},
		{ErrCodeDuplicateName, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeAlreadyConverted, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{shared.CodeNotFound, ErrCodeNotFound},
		{shared.CodeForbidden, ErrCodeForbidden},
		{shared.CodeTenantRequired, ErrCodeTenantRequired},
		{shared.CodeAlreadyConverted, ErrCodeAlreadyConverted},
		{shared.CodeDuplicateEmail, ErrCodeDuplicateEmail},
		{shared.CodeDuplicateName, ErrCodeDuplicateName},
		{shared.CodeValidation, ErrCodeValidation},
		{shared.CodeConcurrencyConflict, ErrCodeConcurrencyConflict},
		{shared.CodeInternal, ErrCodeInternal},
		// Wire codes pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestEveryDomainCodeHasAStatus(t *testing.T) {
	for _, code := range []string{
		shared.CodeNotFound, shared.CodeForbidden, shared.CodeUnauthorized, shared.CodeTenantRequired,
		shared.CodeAlreadyConverted, shared.CodeDuplicateEmail, shared.CodeDuplicateName,
		shared.CodeValidation, shared.CodeConcurrencyConflict, shared.CodeInternal,
	} {
		wire := NormalizeErrorCode(code)
		assert.True(t, strings.HasPrefix(wire, "ERR_"), code)
		_, ok := statusByCode[wire]
		assert.True(t, ok, "no HTTP status for %s (%s)", wire, code)
	}
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Lead not found", "req-1")

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Lead not found", body["message"])
	assert.Equal(t, ErrCodeNotFound, body["code"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.NotContains(t, body, "data")
}

func TestNewListResponse(t *testing.T) {
	resp := NewListResponse("Leads retrieved successfully", []string{"a"}, 41, shared.Filter{Page: 2, PageSize: 20})

	require.NotNil(t, resp.Meta)
	assert.True(t, resp.Success)
	assert.Equal(t, "Leads retrieved successfully", resp.Message)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, int64(41), resp.Meta.Total)

	empty := NewListResponse("", nil, 0, shared.Filter{Page: 1, PageSize: 20})
	assert.Equal(t, 0, empty.Meta.TotalPages)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "", []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
	})

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Code)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "email", resp.Details[0].Field)
}
