package routectl

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrCookieNotFound is returned by RequestInterface.Cookie when the request carries no such cookie
var ErrCookieNotFound = errors.New("routectl: cookie not found")

// HTTPError represents an HTTP error with status code and message
type HTTPError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

// Error makes HTTPError implement the error interface
func (he *HTTPError) Error() string {
	if he.Internal != nil {
		return fmt.Sprintf("HTTP %d: %s: %v", he.Code, he.Message, he.Internal)
	}
	return fmt.Sprintf("HTTP %d: %s", he.Code, he.Message)
}

// Unwrap returns the underlying cause
func (he *HTTPError) Unwrap() error {
	return he.Internal
}

// NewHTTPError creates a new HTTPError. An empty message falls back to the status text.
func NewHTTPError(code int, message string, internal ...error) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	he := &HTTPError{Code: code, Message: message}
	if len(internal) > 0 {
		he.Internal = internal[0]
	}
	return he
}

// ErrBadRequest creates a 400 Bad Request error wrapping cause
func ErrBadRequest(message string, cause error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, cause)
}

// ErrNotFound creates a 404 Not Found error
func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

// ErrInternalServerError creates a 500 Internal Server Error
func ErrInternalServerError(message string, cause error) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, cause)
}

// AsHTTPError reports the HTTP status and message to send for err.
// Errors that are not *HTTPError map to 500.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return NewHTTPError(http.StatusInternalServerError, "", err)
}
