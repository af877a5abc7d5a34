package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

const (
	// KindNetwork means the request never produced a response.
	KindNetwork Kind = iota + 1
	// KindAPI means the server answered with a non-2xx status.
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// RequestError represents a failed call against the rental API.
type RequestError struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Kind == KindNetwork && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	default:
		return fmt.Sprintf("%s %s: request failed", e.Method, e.Path)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(method, path string, err error) *RequestError {
	return &RequestError{Kind: KindNetwork, Method: method, Path: path, Err: err}
}

// NewAPIError creates a RequestError for a non-2xx response. message is the
// server provided error text and may be empty.
func NewAPIError(method, path string, status int, message string) *RequestError {
	return &RequestError{Kind: KindAPI, Method: method, Path: path, Status: status, Message: message}
}

// ValidationError reports a missing or malformed form field. It is returned
// before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Helper for common errors
var (
	ErrRequired = func(field string) *ValidationError { return &ValidationError{Field: field, Message: "is required"} }
)

// ServerMessage returns the message the API sent along with a failed response.
func ServerMessage(err error) (string, bool) {
	var reqErr *RequestError
	if !stderrors.As(err, &reqErr) || reqErr.Kind != KindAPI || reqErr.Message == "" {
		return "", false
	}
	return reqErr.Message, true
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if stderrors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var reqErr *RequestError
	return stderrors.As(err, &reqErr) && reqErr.Kind == KindNetwork
}

// IsValidation reports whether err is a client side validation failure.
func IsValidation(err error) bool {
	var valErr *ValidationError
	return stderrors.As(err, &valErr)
}
