package quoting

import (
	"errors"
	"fmt"
)

// QuotingError represents an error from the quoting API.
type QuotingError struct {
	Code       string
	Message    string
	StatusCode int
	Retryable  bool
	Cause      error
}

// Error implements the error interface.
func (e *QuotingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("quoting error (%s): %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("quoting error (%s): %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *QuotingError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for QuotingError.
func (e *QuotingError) Is(target error) bool {
	t, ok := target.(*QuotingError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewQuotingError creates a new QuotingError.
func NewQuotingError(code, message string) *QuotingError {
	return &QuotingError{
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *QuotingError) WithCause(err error) *QuotingError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *QuotingError) WithStatusCode(code int) *QuotingError {
	e.StatusCode = code
	return e
}

// WithRetryable marks the error as retryable.
func (e *QuotingError) WithRetryable(retryable bool) *QuotingError {
	e.Retryable = retryable
	return e
}

// Sentinel errors for common quoting API failures.
var (
	// ErrInvalidAddress indicates the address is invalid or incomplete.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidPackage indicates package dimensions or weight are invalid.
	ErrInvalidPackage = errors.New("invalid package")

	// ErrServiceUnavailable indicates the quoting API is temporarily unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrQuoteNotFound indicates the quote ID was not found or has expired.
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrLabelNotAvailable indicates the label could not be produced.
	ErrLabelNotAvailable = errors.New("label not available")

	// ErrAuthenticationFailed indicates API authentication failed.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrRateLimitExceeded indicates the API rate limit was exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// IsRetryable returns true if the error is worth retrying at the
// transport level.
func IsRetryable(err error) bool {
	var qerr *QuotingError
	if errors.As(err, &qerr) {
		return qerr.Retryable
	}
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrRateLimitExceeded)
}
