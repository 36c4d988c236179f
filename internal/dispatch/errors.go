package dispatch

import (
	"fmt"
	"strings"
)

// MissingParameterError is returned when a required path parameter has no
// value. It is raised before any request is sent.
type MissingParameterError struct {
	Service   string
	Operation string
	Param     string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Param)
}

// APIError is a non-2xx response from Square. Its message is the response
// body verbatim, or the status line when the body is empty.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Body) != "" {
		return e.Body
	}
	if e.Status != "" {
		return e.Status
	}
	return fmt.Sprintf("square returned %d", e.StatusCode)
}

// TransportError wraps a failure to complete the HTTP exchange (DNS,
// connection refused, cancellation, reading the body).
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("square request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
