package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Plant-GO/biodex/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest         ErrorCode = "bad_request"
	ErrCodeNotFound           ErrorCode = "not_found"
	ErrCodeValidationFailed   ErrorCode = "validation_failed"
	ErrCodeUnauthorized       ErrorCode = "unauthorized"
	ErrCodeMalformed          ErrorCode = "malformed_instruction"
	ErrCodeInvalidArgument    ErrorCode = "invalid_argument"
	ErrCodeAlreadyOwned       ErrorCode = "already_owned"
	ErrCodeAccountInUse       ErrorCode = "account_already_in_use"
	ErrCodeInsufficientFunds  ErrorCode = "insufficient_funds"
	ErrCodeInvocationConflict ErrorCode = "invocation_conflict"

	// Server errors (5xx)
	ErrCodeInternalError   ErrorCode = "internal_error"
	ErrCodeCounterOverflow ErrorCode = "counter_overflow"
	ErrCodeCorruptState    ErrorCode = "corrupt_state"
)

// APIError is the error body every endpoint returns
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

func newError(code ErrorCode, message string, details ...string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewBadRequestError(message string, details ...string) *APIError {
	return newError(ErrCodeBadRequest, message, details...)
}

func NewNotFoundError(message string, details ...string) *APIError {
	return newError(ErrCodeNotFound, message, details...)
}

func NewValidationError(details ...string) *APIError {
	return newError(ErrCodeValidationFailed, "Validation failed", details...)
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return newError(ErrCodeUnauthorized, message, details...)
}

func NewInternalError(message string, details ...string) *APIError {
	return newError(ErrCodeInternalError, message, details...)
}

// domainMapping orders the taxonomy checks; the first match wins
var domainMapping = []struct {
	err     error
	status  int
	code    ErrorCode
	message string
}{
	{domain.ErrMalformedInstruction, http.StatusBadRequest, ErrCodeMalformed, "Malformed instruction"},
	{domain.ErrInvalidArgument, http.StatusBadRequest, ErrCodeInvalidArgument, "Invalid argument"},
	{domain.ErrAlreadyOwned, http.StatusConflict, ErrCodeAlreadyOwned, "Card already owned"},
	{domain.ErrAccountAlreadyInUse, http.StatusConflict, ErrCodeAccountInUse, "Account already in use"},
	{domain.ErrInsufficientFunds, http.StatusPaymentRequired, ErrCodeInsufficientFunds, "Insufficient funds"},
	{domain.ErrInvocationConflict, http.StatusServiceUnavailable, ErrCodeInvocationConflict, "Invocation conflicted with a concurrent one, retry"},
	{domain.ErrAccountNotFound, http.StatusNotFound, ErrCodeNotFound, "Account not found"},
	{domain.ErrCounterOverflow, http.StatusInternalServerError, ErrCodeCounterOverflow, "Counter overflow"},
	{domain.ErrCorruptState, http.StatusInternalServerError, ErrCodeCorruptState, "Corrupt ledger state"},
}

// FromDomainError maps an issuance error to its HTTP status and body. Internal errors carry no
// details; a conflict keeps them so the caller knows what to resubmit.
func FromDomainError(err error) (int, *APIError) {
	for _, m := range domainMapping {
		if errors.Is(err, m.err) {
			if m.status == http.StatusInternalServerError {
				return m.status, newError(m.code, m.message)
			}
			return m.status, newError(m.code, m.message, err.Error())
		}
	}
	return http.StatusInternalServerError, NewInternalError("Internal server error")
}
