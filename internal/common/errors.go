package common

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes console failures
type ErrorKind string

const (
	// KindValidation is a user input problem caught before any network call
	KindValidation ErrorKind = "validation"

	// KindTransport is a network failure or non-2xx analyzer response
	KindTransport ErrorKind = "transport"

	// KindTimeout is an analyzer call that exceeded the client-side deadline
	KindTimeout ErrorKind = "timeout"

	// KindMalformed is a 2xx response whose payload failed boundary validation
	KindMalformed ErrorKind = "malformed"

	// KindRender is a local PDF load/render failure
	KindRender ErrorKind = "render"
)

// User-visible messages
const (
	MsgNoFile          = "Please upload a PDF before running analysis"
	MsgNotPDF          = "Only PDF files are supported."
	MsgEmptyFile       = "The selected PDF is empty."
	MsgNoSkills        = "Please provide at least one required skill."
	MsgGenericFailure  = "Failed to analyze the uploaded PDF."
	MsgMalformedResult = "The analyzer returned an unexpected response."
	MsgTimeout         = "The analyzer did not respond in time. Please try again."
	MsgTooLarge        = "The selected PDF exceeds the maximum upload size."
)

// ConsoleError is the single error type surfaced to the console
type ConsoleError struct {
	// Kind categorizes the error
	Kind ErrorKind `json:"kind"`

	// Message is shown to the user verbatim
	Message string `json:"message"`

	// StatusCode for analyzer HTTP responses
	StatusCode int `json:"status_code,omitempty"`

	// Cause is the underlying error
	Cause error `json:"-"`

	// Retryable indicates the user action can simply be repeated
	Retryable bool `json:"retryable"`
}

// Error implements the error interface
func (e *ConsoleError) Error() string {
	parts := []string{fmt.Sprintf("type=%s", e.Kind)}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *ConsoleError) Unwrap() error {
	return e.Cause
}

// Is matches on error kind
func (e *ConsoleError) Is(target error) bool {
	if ce, ok := target.(*ConsoleError); ok {
		return e.Kind == ce.Kind
	}
	return false
}

// NewValidationError creates a validation error
func NewValidationError(message string) *ConsoleError {
	return &ConsoleError{Kind: KindValidation, Message: message, Retryable: true}
}

// NewTransportError creates a transport error for a failed call or non-2xx response
func NewTransportError(message string, statusCode int, cause error) *ConsoleError {
	if message == "" {
		message = MsgGenericFailure
	}
	return &ConsoleError{Kind: KindTransport, Message: message, StatusCode: statusCode, Cause: cause, Retryable: true}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(message string, cause error) *ConsoleError {
	return &ConsoleError{Kind: KindTimeout, Message: message, Cause: cause, Retryable: true}
}

// NewMalformedError creates an error for a payload that failed boundary validation
func NewMalformedError(cause error) *ConsoleError {
	return &ConsoleError{Kind: KindMalformed, Message: MsgMalformedResult, Cause: cause, Retryable: true}
}

// NewRenderError creates a PDF render error
func NewRenderError(cause error) *ConsoleError {
	msg := "PDF render error"
	if cause != nil {
		msg = "PDF render error: " + cause.Error()
	}
	return &ConsoleError{Kind: KindRender, Message: msg, Cause: cause, Retryable: true}
}

func kindOf(err error) (ErrorKind, bool) {
	var ce *ConsoleError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindValidation
}

// IsTransportError checks if an error came from the analyzer boundary, including timeouts and malformed payloads
func IsTransportError(err error) bool {
	kind, ok := kindOf(err)
	return ok && (kind == KindTransport || kind == KindTimeout || kind == KindMalformed)
}

// IsTimeoutError checks if an error is a timeout
func IsTimeoutError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindTimeout
}

// IsRenderError checks if an error is a render error
func IsRenderError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindRender
}

// UserMessage returns the text to show for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *ConsoleError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return MsgGenericFailure
}
