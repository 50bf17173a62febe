package domain

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned by single-suburb lookups when the search yields nothing.
// Batch discovery treats an empty result as zero rows instead.
var ErrNoMatch = errors.New("no matching places")

// AuthError reports that the API rejected the credential. It aborts a batch.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("places api rejected credential (status %d): %s", e.StatusCode, e.Message)
}

// TransientError covers network failures, rate limiting and server errors.
// The failing key is skipped and the batch continues.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("places api unavailable: %v", e.Err)
	}
	return fmt.Sprintf("places api unavailable (status %d): %v", e.StatusCode, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// RequestError is a non-retryable rejection of a single request, such as a
// malformed query or an undecodable response body.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("places api request failed: %s", e.Message)
	}
	return fmt.Sprintf("places api request failed (status %d): %s", e.StatusCode, e.Message)
}

// IsAuth reports whether err is or wraps an AuthError.
func IsAuth(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsTransient reports whether err is or wraps a TransientError.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// KeyFailure records a search key that was skipped and why.
type KeyFailure struct {
	Key    SearchKey
	Page   int
	Reason string
	Err    error
}
