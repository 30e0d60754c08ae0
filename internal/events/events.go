package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lifecycle event types
const (
	TypeTaskAccepted  = "task.accepted"
	TypeTaskCompleted = "task.completed"
	TypeTaskFailed    = "task.failed"
	TypeTaskCanceled  = "task.canceled"
)

// TaskEvent describes one lifecycle transition of a task.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the lifecycle event types
	Type string `json:"type"`

	// TaskID identifies the task the event belongs to
	TaskID uuid.UUID `json:"task_id"`

	// Operation is the operation the task runs
	Operation string `json:"operation"`

	// Error carries the failure message of failed and canceled tasks
	Error string `json:"error,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskEvent creates a TaskEvent stamped with a fresh id and the current time.
func NewTaskEvent(eventType string, taskID uuid.UUID, operation string, errMsg string) *TaskEvent {
	return &TaskEvent{
		ID:        uuid.New(),
		Type:      eventType,
		TaskID:    taskID,
		Operation: operation,
		Error:     errMsg,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the runner to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}
