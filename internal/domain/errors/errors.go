// Package errors defines the application error taxonomy shared by both
// services. Every error carries the HTTP status it maps to at the delivery
// boundary, so handlers never inspect error strings.
package errors

import (
	"net/http"

	"pairpost/internal/errors"
)

// AppError defines the interface for application-specific errors.
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-facing error message
}

// BaseError is a basic error structure that implements the AppError interface.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
}

// NewBaseError creates a new base error.
func NewBaseError(httpCode int, errorCode, message string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// HTTPCode returns the HTTP status code.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code.
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-facing error message.
func (e *BaseError) Message() string {
	return e.message
}

// WithMessage returns a copy of the error carrying a more specific message.
func (e *BaseError) WithMessage(message string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   message,
	}
}

// Predefined error types.
var (
	// ErrValidation covers client-caused request failures: missing mandatory
	// fields, unknown notification kinds. No side effects, never retried.
	ErrValidation = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"request validation failed",
	)

	// ErrConfiguration covers missing required secrets (project id, service
	// account email, private key). Not recoverable without operator action.
	ErrConfiguration = NewBaseError(
		http.StatusInternalServerError,
		"CONFIGURATION_ERROR",
		"push credentials not configured",
	)

	// ErrInternal is the fallback for unexpected failures.
	ErrInternal = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal server error",
	)
)

// UpstreamAuthError represents a rejected or malformed OAuth2 token exchange.
// The upstream response body is kept verbatim for diagnostics.
type UpstreamAuthError struct {
	detail string
}

// NewUpstreamAuthError creates an upstream-auth error from the exchange
// failure detail (HTTP status text or response body).
func NewUpstreamAuthError(detail string) AppError {
	return &UpstreamAuthError{detail: detail}
}

// Error implements the error interface.
func (e *UpstreamAuthError) Error() string {
	return "failed to get access token: " + e.detail
}

// HTTPCode returns the HTTP status code.
func (e *UpstreamAuthError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code.
func (e *UpstreamAuthError) ErrorCode() string {
	return "UPSTREAM_AUTH_FAILED"
}

// Message returns the user-facing error message.
func (e *UpstreamAuthError) Message() string {
	return e.Error()
}

// StoreError represents a token-store read or write failure.
type StoreError struct {
	err     error
	message string
}

// NewStoreError wraps a persistence failure with a stable user-facing message.
func NewStoreError(err error, message string) AppError {
	return &StoreError{err: err, message: message}
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return errors.Wrap(e.err, e.message).Error()
}

// Unwrap exposes the underlying persistence error.
func (e *StoreError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code.
func (e *StoreError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code.
func (e *StoreError) ErrorCode() string {
	return "STORE_FAILED"
}

// Message returns the user-facing error message.
func (e *StoreError) Message() string {
	return e.message
}
