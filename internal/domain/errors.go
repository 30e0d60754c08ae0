package domain

import "errors"

// Error kinds surfaced by the task pipeline. The first four are synchronous and
// abort a request before a task id is minted; ErrOperation only ever appears on
// a task record after background execution.
var (
	// ErrParse is returned when the upstream language model call fails
	// (network fault, non-2xx response, timeout).
	ErrParse = errors.New("failed to parse task description")

	// ErrSchemaViolation is returned when the structured answer is malformed,
	// lacks a required field, or names an operation outside the closed set.
	ErrSchemaViolation = errors.New("task does not match command schema")

	// ErrUnsupportedOperation is returned when no handler is registered for an operation.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrUnresolvableInput is returned when no input path can be determined for a task.
	ErrUnresolvableInput = errors.New("no valid input path")

	// ErrOperation is returned by handlers when execution fails (missing file,
	// malformed data, no matching pattern).
	ErrOperation = errors.New("operation failed")
)
