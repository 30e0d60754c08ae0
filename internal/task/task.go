package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskgate/internal/domain"
)

// Registry errors
var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrTaskTerminal   = errors.New("task already in a terminal state")
	ErrInvalidStatus  = errors.New("invalid task status transition")
	ErrDuplicateTask  = errors.New("could not allocate a unique task id")
	ErrTaskNotPending = errors.New("task is not pending")
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusError     TaskStatus = "error"
)

// Terminal reports whether s is completed or error.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusError
}

// Record is the lifecycle entry of one accepted task.
type Record struct {
	ID         uuid.UUID        `json:"id"`
	Operation  domain.Operation `json:"operation"`
	Status     TaskStatus       `json:"status"`
	OutputPath string           `json:"output_path"`
	Error      string           `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the operation the task runs
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// FuncTask is a Task backed by a function.
type FuncTask struct {
	id       uuid.UUID
	taskType string
	fn       func(ctx context.Context) error
}

// NewFuncTask creates a FuncTask.
func NewFuncTask(id uuid.UUID, taskType string, fn func(ctx context.Context) error) *FuncTask {
	return &FuncTask{id: id, taskType: taskType, fn: fn}
}

// ID implements Task.
func (t *FuncTask) ID() uuid.UUID {
	return t.id
}

// Type implements Task.
func (t *FuncTask) Type() string {
	return t.taskType
}

// Execute implements Task.
func (t *FuncTask) Execute(ctx context.Context) error {
	if t.fn == nil {
		return nil
	}
	return t.fn(ctx)
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
// allowing services to enqueue tasks for processing
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}

// Registry stores task records. Implementations must be safe for concurrent use.
type Registry interface {
	// Create allocates a fresh id and stores a pending record.
	Create(ctx context.Context, operation domain.Operation, outputPath string) (Record, error)

	// Update moves a pending record to a terminal status. It fails with
	// ErrTaskNotFound for an unknown id and ErrTaskTerminal when the record
	// already left pending.
	Update(ctx context.Context, id uuid.UUID, status TaskStatus, errorMsg string) error

	// Get returns a copy of the record.
	Get(ctx context.Context, id uuid.UUID) (Record, error)

	// Discard removes a pending record that was never handed to a worker.
	Discard(ctx context.Context, id uuid.UUID) error
}
