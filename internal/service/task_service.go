package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/taskgate/internal/dispatch"
	"github.com/phrazzld/taskgate/internal/domain"
	"github.com/phrazzld/taskgate/internal/task"
)

// TaskParser converts a description into a validated parsed task.
type TaskParser interface {
	Parse(ctx context.Context, description string) (*domain.ParsedTask, error)
}

// TaskDispatcher resolves a parsed task to a handler and its arguments.
type TaskDispatcher interface {
	Dispatch(task *domain.ParsedTask) (*dispatch.Resolved, error)
}

// TaskRunner accepts and tracks background tasks.
type TaskRunner interface {
	Submit(ctx context.Context, operation domain.Operation, outputPath string, run func(ctx context.Context) error) (task.Record, error)
	Get(ctx context.Context, id uuid.UUID) (task.Record, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

// Plan is the outcome of the synchronous phase for one description.
type Plan struct {
	Task      *domain.ParsedTask `json:"task"`
	Operation domain.Operation   `json:"operation"`
	InputPath string             `json:"input_path"`
	InputKind string             `json:"input_kind"`
	Defaulted bool               `json:"input_defaulted"`
	resolved  *dispatch.Resolved
}

// TaskService provides the task pipeline use cases
type TaskService interface {
	// SubmitTask parses and validates description, then queues the resolved
	// handler. The returned record is pending.
	SubmitTask(ctx context.Context, description string) (task.Record, error)

	// PlanTask runs parsing and dispatch without executing anything.
	PlanTask(ctx context.Context, description string) (*Plan, error)

	// GetTask returns the current record of a task.
	GetTask(ctx context.Context, id uuid.UUID) (task.Record, error)

	// CancelTask abandons a pending or running task.
	CancelTask(ctx context.Context, id uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	parser     TaskParser
	dispatcher TaskDispatcher
	runner     TaskRunner
	logger     *slog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	parser TaskParser,
	dispatcher TaskDispatcher,
	runner TaskRunner,
	logger *slog.Logger,
) (TaskService, error) {
	if parser == nil {
		return nil, errors.New("parser cannot be nil")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher cannot be nil")
	}
	if runner == nil {
		return nil, errors.New("runner cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &taskServiceImpl{
		parser:     parser,
		dispatcher: dispatcher,
		runner:     runner,
		logger:     logger.With("component", "task_service"),
	}, nil
}

// PlanTask implements TaskService.
func (s *taskServiceImpl) PlanTask(ctx context.Context, description string) (*Plan, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}

	parsed, err := s.parser.Parse(ctx, description)
	if err != nil {
		return nil, NewTaskServiceError("plan_task", "failed to parse description", err)
	}

	resolved, err := s.dispatcher.Dispatch(parsed)
	if err != nil {
		return nil, NewTaskServiceError("plan_task", "failed to dispatch task", err)
	}

	kind, _ := dispatch.KindOf(resolved.Operation)
	return &Plan{
		Task:      parsed,
		Operation: resolved.Operation,
		InputPath: resolved.Args.InputPath,
		InputKind: kind.String(),
		Defaulted: resolved.Defaulted,
		resolved:  resolved,
	}, nil
}

// SubmitTask implements TaskService.
func (s *taskServiceImpl) SubmitTask(ctx context.Context, description string) (task.Record, error) {
	plan, err := s.PlanTask(ctx, description)
	if err != nil {
		s.logger.DebugContext(ctx, "task rejected during validation", "error", err)
		return task.Record{}, err
	}

	resolved := plan.resolved
	rec, err := s.runner.Submit(ctx, resolved.Operation, resolved.Args.OutputPath,
		func(ctx context.Context) error {
			return resolved.Handler.Handle(ctx, resolved.Args)
		})
	if err != nil {
		return task.Record{}, NewTaskServiceError("submit_task", "failed to queue task", err)
	}

	s.logger.InfoContext(ctx, "task accepted",
		"task_id", rec.ID,
		"operation", resolved.Operation,
		"input_path", resolved.Args.InputPath,
		"input_defaulted", resolved.Defaulted,
		"output_path", resolved.Args.OutputPath)
	return rec, nil
}

// GetTask implements TaskService.
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (task.Record, error) {
	rec, err := s.runner.Get(ctx, id)
	if err != nil {
		return task.Record{}, NewTaskServiceError("get_task", "failed to read task", err)
	}
	return rec, nil
}

// CancelTask implements TaskService.
func (s *taskServiceImpl) CancelTask(ctx context.Context, id uuid.UUID) error {
	if err := s.runner.Cancel(ctx, id); err != nil {
		return NewTaskServiceError("cancel_task", "failed to cancel task", err)
	}
	return nil
}
