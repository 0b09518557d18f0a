package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Construction errors. A pipeline that fails with one of these is never built.
const (
	// ErrCodeConfiguration indicates a malformed or incomplete node configuration.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeTopology indicates incompatible declared types between consecutive stages.
	ErrCodeTopology ErrorCode = "TOPOLOGY_ERROR"
)

// Run errors. A run that fails with one of these returns no partial result.
const (
	// ErrCodeTopologyMismatch indicates runtime data that neither matches nor slices into a node's input type.
	ErrCodeTopologyMismatch ErrorCode = "TOPOLOGY_MISMATCH"
	// ErrCodeShapeMismatch indicates a context collection whose length differs from the data collection.
	ErrCodeShapeMismatch ErrorCode = "SHAPE_MISMATCH"
	// ErrCodeMissingParameter indicates a parameter absent from both configuration and context.
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	// ErrCodeOperationFailed indicates an operation returned its own error.
	ErrCodeOperationFailed ErrorCode = "OPERATION_FAILED"
	// ErrCodeCanceled indicates the run was canceled through its context.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Lookup and input errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeCanceled: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// The engine itself never retries; the flag is advisory for callers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
