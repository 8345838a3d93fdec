package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("LED_006", "Insufficient balance", http.StatusUnprocessableEntity),
			expected: "[LED_006] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("LED_003", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"Unauthorized", ErrUnauthorized(), "LED_001", 403},
		{"InvalidAddress", ErrInvalidAddress(fmt.Errorf("bad char")), "LED_002", 400},
		{"InvalidAmount", ErrInvalidAmount(), "LED_003", 400},
		{"InvalidFunds", ErrInvalidFunds("no funds attached"), "LED_004", 400},
		{"InvalidDenomination", ErrInvalidDenomination("uosmo", "uatom"), "LED_005", 400},
		{"InsufficientBalance", ErrInsufficientBalance("100000", "600"), "LED_006", 422},
		{"SelfAuthorization", ErrSelfAuthorization(), "LED_007", 400},
		{"Overflow", ErrOverflow(), "LED_008", 422},
		{"AlreadyInitialized", ErrAlreadyInitialized(), "LED_009", 409},
		{"NotInitialized", ErrNotInitialized(), "LED_010", 409},
		{"NotImplemented", ErrNotImplemented(), "LED_011", 501},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestInsufficientBalance_CarriesValues(t *testing.T) {
	err := ErrInsufficientBalance("100000", "600")
	assert.Contains(t, err.Message, "100000")
	assert.Contains(t, err.Message, "600")
}

func TestInvalidDenomination_CarriesValues(t *testing.T) {
	err := ErrInvalidDenomination("uosmo", "uatom")
	assert.Contains(t, err.Message, "uosmo")
	assert.Contains(t, err.Message, "uatom")
}

func TestAuthAndRateErrors(t *testing.T) {
	assert.Equal(t, "AUTH_001", ErrInvalidToken().Code)
	assert.Equal(t, 401, ErrInvalidToken().HTTPStatus)
	assert.Equal(t, "RATE_001", ErrRateLimitExceeded().Code)
	assert.Equal(t, 429, ErrRateLimitExceeded().HTTPStatus)
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	sysErr := InternalError(inner)
	assert.Equal(t, "SYS_001", sysErr.Code)
	assert.Equal(t, 500, sysErr.HTTPStatus)
	assert.True(t, errors.Is(sysErr, inner))
}
