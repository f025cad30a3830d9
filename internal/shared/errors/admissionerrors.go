package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Admission-specific error types. These cover every way a request can be
// turned away before business logic runs: bad identity, wrong tenant, or
// traffic shaping. All of them are terminal for the current request.
const (
	ErrorTypeTokenInvalid       ErrorType = "token_invalid"
	ErrorTypeTokenExpired       ErrorType = "token_expired"
	ErrorTypeWrongTokenKind     ErrorType = "wrong_token_kind"
	ErrorTypeTenantAccessDenied ErrorType = "tenant_access_denied"
	ErrorTypeRateLimitExceeded  ErrorType = "rate_limit_exceeded"
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"
)

// AdmissionError wraps AppError with security-relevant context so the
// middleware can decide what deserves log noise and what deserves tracking.
type AdmissionError struct {
	*AppError
	// ShouldLog determines if this error should be logged.
	// Expected failures (normal expiry, rate limits) stay out of the logs.
	ShouldLog bool
	// SecurityEvent indicates if this should be tracked as a security event
	SecurityEvent bool
	// RetryAfter is the back-off hint in seconds; zero means not retryable.
	RetryAfter int
}

// Error implements the error interface
func (e *AdmissionError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *AdmissionError) Unwrap() error {
	return e.AppError
}

// NewTokenInvalidError creates an error for malformed or tampered tokens
func NewTokenInvalidError() *AdmissionError {
	return &AdmissionError{
		AppError: &AppError{
			Type:    ErrorTypeTokenInvalid,
			Message: "Invalid token",
			Code:    http.StatusUnauthorized,
			Details: "Token is malformed or its signature does not match",
		},
		ShouldLog:     true, // May indicate tampering
		SecurityEvent: true,
	}
}

// NewTokenExpiredError creates an error for expired tokens
func NewTokenExpiredError() *AdmissionError {
	return &AdmissionError{
		AppError: &AppError{
			Type:    ErrorTypeTokenExpired,
			Message: "Token has expired",
			Code:    http.StatusUnauthorized,
			Details: "Please login again",
		},
		ShouldLog:     false, // Normal expiration
		SecurityEvent: false,
	}
}

// NewWrongTokenKindError creates an error for a refresh token presented where
// an access token is expected, or the other way round.
func NewWrongTokenKindError(expected string) *AdmissionError {
	return &AdmissionError{
		AppError: &AppError{
			Type:    ErrorTypeWrongTokenKind,
			Message: fmt.Sprintf("Expected %s token", expected),
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// NewTenantAccessDeniedError creates an error for a valid identity acting on
// a tenant it is not assigned to.
func NewTenantAccessDeniedError(tenantID string) *AdmissionError {
	return &AdmissionError{
		AppError: &AppError{
			Type:    ErrorTypeTenantAccessDenied,
			Message: "Access to this university is not allowed",
			Code:    http.StatusForbidden,
			Details: fmt.Sprintf("identity is not assigned to tenant %s", tenantID),
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// NewRateLimitExceededError creates an error for an admission rejection with
// a back-off hint.
func NewRateLimitExceededError(message string, retryAfter int) *AdmissionError {
	return &AdmissionError{
		AppError: &AppError{
			Type:    ErrorTypeRateLimitExceeded,
			Message: message,
			Code:    http.StatusTooManyRequests,
		},
		ShouldLog:     false, // Expected under burst load
		SecurityEvent: false,
		RetryAfter:    retryAfter,
	}
}

// NewInvalidCredentialsError creates an error for invalid login credentials.
// The message does not reveal whether the username or password was wrong.
func NewInvalidCredentialsError() *AdmissionError {
	return &AdmissionError{
		AppError: &AppError{
			Type:    ErrorTypeInvalidCredentials,
			Message: "Invalid username or password",
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     false, // Expected error, don't clutter logs
		SecurityEvent: true,  // Track for brute force detection
	}
}

// IsAdmissionError checks if the error is an AdmissionError
func IsAdmissionError(err error) bool {
	var admErr *AdmissionError
	return stderrors.As(err, &admErr)
}

// GetAdmissionError extracts AdmissionError from the error chain
func GetAdmissionError(err error) *AdmissionError {
	var admErr *AdmissionError
	if stderrors.As(err, &admErr) {
		return admErr
	}
	return nil
}

// ShouldLogAdmissionError returns true if the admission error should be logged
func ShouldLogAdmissionError(err error) bool {
	if admErr := GetAdmissionError(err); admErr != nil {
		return admErr.ShouldLog
	}
	return true // Default to logging if not an AdmissionError
}

// IsSecurityEvent returns true if the error should be tracked as a security event
func IsSecurityEvent(err error) bool {
	if admErr := GetAdmissionError(err); admErr != nil {
		return admErr.SecurityEvent
	}
	return false
}
