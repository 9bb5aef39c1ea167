package lookup

import (
	"errors"
	"fmt"
)

// Common errors returned by lookup adapters.
var (
	// ErrUnavailable indicates an adapter exhausted its retries. The
	// orchestrator records it per reference and keeps going with the
	// remaining providers; it never aborts a document.
	ErrUnavailable = errors.New("lookup source unavailable")

	// ErrRateLimited indicates the provider rejected the request for
	// rate-limit reasons.
	ErrRateLimited = errors.New("lookup rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error during lookup")

	// ErrInvalidResponse indicates an unexpected provider response.
	ErrInvalidResponse = errors.New("invalid response from lookup source")
)

// APIError represents an HTTP-level error from a lookup provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error (status %d)", e.Provider, e.StatusCode)
}

// IsUnavailable returns true if the error means the provider could not
// be reached at all after retries.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// retryable reports whether an HTTP status is worth retrying:
// timeouts and connection errors are handled separately by the client.
func retryable(status int) bool {
	return status == 429 || status >= 500
}
