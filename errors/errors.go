package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified error type returned by every flowkit package.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Construction errors ---

// Configuration creates an error for a node configuration the factory cannot build.
func Configuration(reason string) *AppError {
	return &AppError{
		Code: ErrCodeConfiguration, Message: fmt.Sprintf("Invalid node configuration: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// Topology creates an error for two consecutive stages whose declared types are incompatible.
func Topology(producer, producedType, consumer, consumedType string) *AppError {
	return &AppError{
		Code: ErrCodeTopology,
		Message: fmt.Sprintf("Invalid pipeline topology: output of %s (%s) not compatible with %s (%s).",
			producer, producedType, consumer, consumedType),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{
			"producer":      producer,
			"produced_type": producedType,
			"consumer":      consumer,
			"consumed_type": consumedType,
		},
	}
}

// --- Run errors ---

// TopologyMismatch creates an error for runtime data a node can neither take whole nor slice.
func TopologyMismatch(position int, operation, expected, received string) *AppError {
	return &AppError{
		Code: ErrCodeTopologyMismatch,
		Message: fmt.Sprintf("Incompatible data type for node %d (%s): expected %s, but received %s.",
			position, operation, expected, received),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{
			"position":  position,
			"operation": operation,
			"expected":  expected,
			"received":  received,
		},
	}
}

// ShapeMismatch creates an error for a context collection that cannot be paired with the data collection.
func ShapeMismatch(position int, operation string, dataLen, contextLen int) *AppError {
	return &AppError{
		Code: ErrCodeShapeMismatch,
		Message: fmt.Sprintf("Cannot slice node %d (%s): data collection has %d elements, context collection has %d records.",
			position, operation, dataLen, contextLen),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{
			"position":    position,
			"operation":   operation,
			"data_len":    dataLen,
			"context_len": contextLen,
		},
	}
}

// MissingParameter creates an error for a parameter found neither in configuration nor in context.
func MissingParameter(position int, operation, parameter string) *AppError {
	return &AppError{
		Code: ErrCodeMissingParameter,
		Message: fmt.Sprintf("Parameter %q of node %d (%s) is neither configured nor present in context.",
			parameter, position, operation),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{
			"position":  position,
			"operation": operation,
			"parameter": parameter,
		},
	}
}

// OperationFailed wraps an error returned by an operation implementation.
func OperationFailed(position int, operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeOperationFailed, Message: fmt.Sprintf("Node %d (%s) failed.", position, operation),
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
		Details: map[string]any{
			"position":  position,
			"operation": operation,
		},
	}
}

// Canceled creates an error for a run aborted by its context.
func Canceled(cause error) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: "The pipeline run was canceled.",
		HTTPStatus: http.StatusRequestTimeout, Retryable: true, Cause: cause,
	}
}

// --- Lookup and input errors ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// Internal creates a new AppError for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
