package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable matches every transport-level *Error.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized matches a *Error with status 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidEndpoint is the cause of a *Error for a malformed endpoint.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)

// Error is the only error shape the gateway returns.
type Error struct {
	// Status is the HTTP status, or 0 when none was obtained.
	Status int
	// Message is the server-supplied message, or a generic fallback.
	Message string
	// Data is the full parsed body for status errors.
	Data json.RawMessage
	// Err is the underlying cause, if any. It is never shown to users.
	Err error

	serverMessage bool
}

// NewStatusError builds the error for a non-2xx response. An empty message
// is replaced with a fallback derived from the status.
func NewStatusError(status int, message string, data json.RawMessage) *Error {
	e := &Error{Status: status, Message: message, Data: data, serverMessage: message != ""}
	if !e.serverMessage {
		e.Message = fallbackMessage(status)
	}
	return e
}

func transportError(message string, cause error) *Error {
	return &Error{Message: message, Err: cause}
}

func fallbackMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("request failed: %s", text)
	}
	return fmt.Sprintf("request failed with status %d", status)
}

func (e *Error) Error() string {
	if e.IsTransport() {
		if e.Err != nil {
			return fmt.Sprintf("gateway: %s: %v", e.Message, e.Err)
		}
		return "gateway: " + e.Message
	}
	return fmt.Sprintf("gateway: status %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.IsTransport()
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

// IsTransport reports whether no HTTP status was obtained.
func (e *Error) IsTransport() bool { return e.Status == 0 }

// HasServerMessage reports whether Message came from the response body.
func (e *Error) HasServerMessage() bool { return e.serverMessage }

// AsError extracts the *Error from err.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
