package providers

import (
	"errors"
	"fmt"
	"net/http"
)

// GatewayError reports a failed exchange with a generative text service.
// It is always fatal to the invocation that made the call.
type GatewayError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *GatewayError) Error() string {
	msg := e.Provider + " gateway"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		return false
	}
	return gwErr.StatusCode == http.StatusUnauthorized || gwErr.StatusCode == http.StatusForbidden
}

// statusError classifies a non-200 HTTP response.
func statusError(provider string, status int, body []byte) error {
	msg := string(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		msg = "authentication failed: " + msg
	case status == http.StatusTooManyRequests:
		msg = "rate limited: " + msg
	case status >= 500:
		msg = "server error: " + msg
	default:
		msg = "API error: " + msg
	}
	return &GatewayError{Provider: provider, StatusCode: status, Message: msg}
}
