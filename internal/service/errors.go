package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskgate/internal/domain"
	"github.com/phrazzld/taskgate/internal/task"
)

// Sentinel errors of the task service.
var (
	// ErrEmptyDescription indicates a blank task description.
	ErrEmptyDescription = errors.New("task description is required")
)

// TaskServiceError wraps unexpected errors from the task service with context.
type TaskServiceError struct {
	// Operation is the use case that failed (e.g., "submit_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// knownErrors pass through NewTaskServiceError unwrapped.
var knownErrors = []error{
	ErrEmptyDescription,
	domain.ErrParse,
	domain.ErrSchemaViolation,
	domain.ErrUnsupportedOperation,
	domain.ErrUnresolvableInput,
	task.ErrTaskNotFound,
	task.ErrTaskTerminal,
	task.ErrQueueFull,
	task.ErrQueueClosed,
}

// NewTaskServiceError wraps err with context. Errors that already carry a
// known sentinel are returned as-is.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
