package figma

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the single error shape every request failure is normalized
// into before propagation. Status carries the HTTP status code; a Status of
// zero indicates a transport-level failure (DNS, connection refused,
// cancellation, or a likely CORS-style network misconfiguration) where no
// response was received.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("figma: network failure: %s", e.Message)
	}
	return fmt.Sprintf("figma: %s (status %d)", e.Message, e.Status)
}

// newAPIError maps an HTTP status code to a normalized APIError with a
// human-readable message.
func newAPIError(status int, body string) *APIError {
	var msg string
	switch status {
	case http.StatusUnauthorized:
		msg = "invalid access token"
	case http.StatusForbidden:
		msg = "access forbidden: the token does not grant access to this file"
	case http.StatusNotFound:
		msg = "file not found: check the file key"
	case http.StatusRequestURITooLong:
		msg = "request URI too long: too many node IDs in a single request"
	case http.StatusTooManyRequests:
		msg = "rate limited by the Figma API"
	default:
		msg = "API request failed"
	}
	if body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return &APIError{Message: msg, Status: status}
}

// statusOf returns the status of err if it is (or wraps) an APIError,
// and -1 otherwise.
func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// IsUnauthorized reports whether err is an authentication or authorization failure.
func IsUnauthorized(err error) bool {
	s := statusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}

// IsNotFound reports whether err indicates a missing file or resource.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsRequestTooLarge reports whether err indicates an over-long request URI.
func IsRequestTooLarge(err error) bool {
	return statusOf(err) == http.StatusRequestURITooLong
}

// IsNetworkFailure reports whether err indicates a transport-level failure
// where no HTTP response was received.
func IsNetworkFailure(err error) bool {
	return statusOf(err) == 0
}
