package dto

import (
	"encoding/json"
	"net/http"
	"testing"

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
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeCapacityExceeded, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{"SHIFT_OVERLAP", http.StatusConflict},
		{"CHECKOUT_IN_PROGRESS", http.StatusConflict},
		{"ALREADY_CLOCKED_IN", http.StatusBadRequest},
		{"NOT_CLOCKED_IN", http.StatusBadRequest},
		{"ASSISTANT_UNAVAILABLE", http.StatusServiceUnavailable},
		{"FILE_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"UNSUPPORTED_MEDIA_TYPE", http.StatusUnsupportedMediaType},
		// naming fallbacks
		{"SLUG_TAKEN", http.StatusConflict},
		{"EMAIL_TAKEN", http.StatusConflict},
		{"CART_ITEM_NOT_FOUND", http.StatusNotFound},
		{"INVALID_TIME_RANGE", http.StatusBadRequest},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
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
		{"NOT_FOUND", ErrCodeNotFound},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"CAPACITY_EXCEEDED", ErrCodeCapacityExceeded},
		{"TOKEN_REVOKED", ErrCodeTokenRevoked},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"SHIFT_OVERLAP", "SHIFT_OVERLAP"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

// INVALID_STATE must reach 422 through normalization, not the INVALID_ prefix rule
func TestInvalidStateIsUnprocessable(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(NormalizeErrorCode("INVALID_STATE")))
}

func TestValidationErrorResponse_JSON(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	errObj := body["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errObj["code"])
	assert.Equal(t, "req-1", errObj["request_id"])
	assert.Len(t, errObj["details"], 1)
	assert.NotContains(t, body, "data")
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 41, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	empty := NewSuccessResponseWithMeta(nil, 0, 1, 0)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}
