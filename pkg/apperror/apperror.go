package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Ledger Business Logic (LED) ----

func ErrUnauthorized() *AppError {
	return New("LED_001", "Caller is not permitted to spend from this account", http.StatusForbidden)
}

func ErrInvalidAddress(err error) *AppError {
	return Wrap("LED_002", "Invalid account identifier", http.StatusBadRequest, err)
}

func ErrInvalidAmount() *AppError {
	return New("LED_003", "Amount must be a positive integer", http.StatusBadRequest)
}

func ErrInvalidFunds(detail string) *AppError {
	return New("LED_004", fmt.Sprintf("Invalid attached funds: %s", detail), http.StatusBadRequest)
}

func ErrInvalidDenomination(got, want string) *AppError {
	return New("LED_005", fmt.Sprintf("Denomination %q not accepted, ledger accepts %q", got, want), http.StatusBadRequest)
}

func ErrInsufficientBalance(requested, available string) *AppError {
	return New("LED_006", fmt.Sprintf("Insufficient balance: requested %s, available %s", requested, available), http.StatusUnprocessableEntity)
}

func ErrSelfAuthorization() *AppError {
	return New("LED_007", "An account cannot authorize itself as a spender", http.StatusBadRequest)
}

func ErrOverflow() *AppError {
	return New("LED_008", "Balance arithmetic exceeds the 128-bit bound", http.StatusUnprocessableEntity)
}

func ErrAlreadyInitialized() *AppError {
	return New("LED_009", "Ledger is already initialized", http.StatusConflict)
}

func ErrNotInitialized() *AppError {
	return New("LED_010", "Ledger has not been initialized", http.StatusConflict)
}

func ErrNotImplemented() *AppError {
	return New("LED_011", "Request kind not implemented", http.StatusNotImplemented)
}

// Validation returns a request-binding validation error.
func Validation(message string) *AppError {
	return New("LED_012", message, http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
