package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents graph backend errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeValidation represents rejected client input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents lookups on write paths that found nothing
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeIngest represents text or page ingestion errors
	ErrorTypeIngest ErrorType = "ingest"
	// ErrorTypeLLM represents narration errors
	ErrorTypeLLM ErrorType = "llm"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when the graph backend is unreachable
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to graph backend: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a backend operation fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("%s failed", operation), err),
		Operation: operation,
	}
}

// ErrGraphInconsistent is returned when a loaded dataset cannot form a store
type ErrGraphInconsistent struct {
	*BaseError
}

func NewGraphInconsistent(err error) *ErrGraphInconsistent {
	return &ErrGraphInconsistent{
		BaseError: NewBaseError(ErrorTypeGraph, "dataset is inconsistent", err),
	}
}

// Validation Errors

// ErrInvalidInput is returned when a request carries unusable data
type ErrInvalidInput struct {
	*BaseError
	Field string
}

func NewInvalidInput(field string, err error) *ErrInvalidInput {
	return &ErrInvalidInput{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s", field), err),
		Field:     field,
	}
}

// Not Found Errors

// ErrNodeNotFound is returned when a write references a missing node
type ErrNodeNotFound struct {
	*BaseError
	NodeID string
}

func NewNodeNotFound(nodeID string) *ErrNodeNotFound {
	return &ErrNodeNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("node not found: %s", nodeID), nil),
		NodeID:    nodeID,
	}
}

// ErrSessionNotFound is returned for unknown or expired viewing sessions
type ErrSessionNotFound struct {
	*BaseError
	SessionID string
}

func NewSessionNotFound(sessionID string) *ErrSessionNotFound {
	return &ErrSessionNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("session not found: %s", sessionID), nil),
		SessionID: sessionID,
	}
}

// Ingest Errors

// ErrIngestFailed is returned when text or a page cannot be turned into nodes
type ErrIngestFailed struct {
	*BaseError
	Source string
}

func NewIngestFailed(source string, err error) *ErrIngestFailed {
	return &ErrIngestFailed{
		BaseError: NewBaseError(ErrorTypeIngest, fmt.Sprintf("ingestion failed: %s", source), err),
		Source:    source,
	}
}

// LLM Errors

// ErrNarrationUnavailable is returned when no LLM endpoint is configured
var ErrNarrationUnavailable = NewBaseError(ErrorTypeLLM, "narration is not configured", nil)

// ErrNarrationFailed is returned when the LLM request fails
type ErrNarrationFailed struct {
	*BaseError
	Model string
}

func NewNarrationFailed(model string, err error) *ErrNarrationFailed {
	return &ErrNarrationFailed{
		BaseError: NewBaseError(ErrorTypeLLM, "narration request failed", err),
		Model:     model,
	}
}

// Context Errors

// ErrContextTimeout is returned when context times out
type ErrContextTimeout struct {
	*BaseError
	Operation string
	Timeout   time.Duration
}

func NewContextTimeout(operation string, timeout time.Duration) *ErrContextTimeout {
	return &ErrContextTimeout{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context timeout: %s (timeout: %v)", operation, timeout), nil),
		Operation: operation,
		Timeout:   timeout,
	}
}

// Helper functions

type typed interface {
	errorType() ErrorType
}

func (e *BaseError) errorType() ErrorType { return e.Type }

// TypeOf returns the category of the first BaseError in err's chain
func TypeOf(err error) (ErrorType, bool) {
	var t typed
	if errors.As(err, &t) {
		return t.errorType(), true
	}
	return "", false
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	t, ok := TypeOf(err)
	return ok && t == errType
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Context errors are not retryable
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	// Graph backend and LLM failures are transient
	if IsErrorType(err, ErrorTypeGraph) || IsErrorType(err, ErrorTypeLLM) {
		return !errors.Is(err, ErrNarrationUnavailable)
	}
	return false
}
