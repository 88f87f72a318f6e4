package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures manifest validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TransportError represents a network or connection failure while talking
// to the Incus API. It is always fatal to the current invocation.
type TransportError struct {
	URL string
	Err error
}

// NewTransportError constructs a TransportError.
func NewTransportError(url string, err error) error {
	return &TransportError{URL: url, Err: err}
}

func (e *TransportError) Error() string {
	if e == nil {
		return ""
	}
	if e.URL != "" {
		return fmt.Sprintf("transport error: %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ProtocolError indicates a response from the server that cannot be
// classified, such as a read returning neither 200 nor 404.
type ProtocolError struct {
	StatusCode int
	Message    string
}

// NewProtocolError constructs a ProtocolError.
func NewProtocolError(statusCode int, message string) error {
	return &ProtocolError{StatusCode: statusCode, Message: message}
}

func (e *ProtocolError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("protocol error: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("protocol error: %s", e.Message)
}

// RemoteRejectedError indicates a write request the server refused. The
// reconciler never retries these; the operator re-runs the invocation.
type RemoteRejectedError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

// NewRemoteRejectedError constructs a RemoteRejectedError.
func NewRemoteRejectedError(method, path string, code int, message string) error {
	return &RemoteRejectedError{Method: method, Path: path, Code: code, Message: message}
}

func (e *RemoteRejectedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("remote rejected %s %s: %s (code %d)", e.Method, e.Path, e.Message, e.Code)
}

// ExecutionError represents a runtime failure while reconciling a resource.
type ExecutionError struct {
	ResourceID string
	Err        error
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(resourceID string, err error) error {
	return &ExecutionError{ResourceID: resourceID, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.ResourceID != "" {
		return fmt.Sprintf("execution error on resource %s: %v", e.ResourceID, e.Err)
	}
	return fmt.Sprintf("execution error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
