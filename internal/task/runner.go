package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskgate/internal/domain"
	"github.com/phrazzld/taskgate/internal/events"
	"github.com/phrazzld/taskgate/internal/redact"
)

// Messages recorded on tasks that did not run to completion.
const (
	MessageCanceled     = "task canceled"
	MessageTimedOut     = "task timed out"
	MessageShuttingDown = "server shutting down"
)

// ErrRunnerStopped is recorded on tasks still queued when the runner stops.
var ErrRunnerStopped = errors.New(MessageShuttingDown)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// ExecutionTimeout bounds a single task run. Zero disables the bound.
	ExecutionTimeout time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: 4,
		QueueSize:   100,
	}
}

// TaskRunner accepts tasks into the registry and executes them on a bounded
// worker pool. Each accepted task gets its own cancellation token.
type TaskRunner struct {
	registry Registry
	queue    *TaskQueue
	pool     *WorkerPool
	emitter  events.EventEmitter
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	tokens map[uuid.UUID]context.CancelFunc
	ctxs   map[uuid.UUID]context.Context

	stopOnce sync.Once
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(registry Registry, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	logger = logger.With("component", "task_runner")
	ctx, cancel := context.WithCancel(context.Background())

	r := &TaskRunner{
		registry: registry,
		queue:    NewTaskQueue(config.QueueSize, logger),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		tokens:   make(map[uuid.UUID]context.CancelFunc),
		ctxs:     make(map[uuid.UUID]context.Context),
	}
	r.pool = NewWorkerPool(r.queue, WorkerPoolConfig{
		WorkerCount:      config.WorkerCount,
		ExecutionTimeout: config.ExecutionTimeout,
	}, logger)
	r.pool.SetHooks(TaskHooks{
		Prepare: r.prepare,
		Done:    r.finish,
	})
	return r
}

// SetEventEmitter installs an emitter for lifecycle events. It must be called
// before Start.
func (r *TaskRunner) SetEventEmitter(emitter events.EventEmitter) {
	r.emitter = emitter
}

// Start launches the worker pool.
func (r *TaskRunner) Start() {
	r.pool.Start()
}

// Stop closes the queue, cancels running tasks and records every task still
// queued as an error.
func (r *TaskRunner) Stop() {
	r.stopOnce.Do(func() {
		r.queue.Close()
		r.pool.Stop()
		r.cancel()

		drained := 0
		for t := range r.queue.GetChannel() {
			r.finish(t, ErrRunnerStopped)
			drained++
		}
		r.logger.Info("task runner stopped", "drained_tasks", drained)
	})
}

// Submit registers a pending record for operation and queues run for
// execution. When the queue is full or closed the record is discarded and
// the queue error is returned, so no id escapes for work that will never run.
func (r *TaskRunner) Submit(
	ctx context.Context,
	operation domain.Operation,
	outputPath string,
	run func(ctx context.Context) error,
) (Record, error) {
	rec, err := r.registry.Create(ctx, operation, outputPath)
	if err != nil {
		return Record{}, fmt.Errorf("failed to register task: %w", err)
	}

	taskCtx, cancel := context.WithCancel(r.ctx)
	r.mu.Lock()
	r.tokens[rec.ID] = cancel
	r.ctxs[rec.ID] = taskCtx
	r.mu.Unlock()

	if err := r.queue.Enqueue(NewFuncTask(rec.ID, operation.String(), run)); err != nil {
		r.release(rec.ID)
		if discardErr := r.registry.Discard(ctx, rec.ID); discardErr != nil {
			r.logger.ErrorContext(ctx, "failed to discard rejected task",
				"task_id", rec.ID,
				"error", discardErr)
		}
		r.logger.WarnContext(ctx, "task rejected", "operation", operation, "error", err)
		return Record{}, err
	}

	r.emit(events.NewTaskEvent(events.TypeTaskAccepted, rec.ID, operation.String(), ""))
	return rec, nil
}

// Get returns the current record of id.
func (r *TaskRunner) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	return r.registry.Get(ctx, id)
}

// Cancel moves a pending task to error and fires its cancellation token. It
// fails with ErrTaskNotFound or ErrTaskTerminal.
func (r *TaskRunner) Cancel(ctx context.Context, id uuid.UUID) error {
	rec, err := r.registry.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrTaskTerminal, id, rec.Status)
	}

	if err := r.registry.Update(ctx, id, TaskStatusError, MessageCanceled); err != nil {
		return err
	}
	r.release(id)

	r.logger.InfoContext(ctx, "task canceled", "task_id", id)
	r.emit(events.NewTaskEvent(events.TypeTaskCanceled, id, rec.Operation.String(), MessageCanceled))
	return nil
}

// QueueStats reports the depth and accept/reject counts of the task queue.
func (r *TaskRunner) QueueStats() QueueStats {
	return r.queue.Stats()
}

// prepare hands the worker the task's own cancellation context.
func (r *TaskRunner) prepare(parent context.Context, t Task) (context.Context, context.CancelFunc) {
	r.mu.Lock()
	taskCtx, ok := r.ctxs[t.ID()]
	r.mu.Unlock()
	if !ok {
		// Already released: canceled while queued
		ctx, cancel := context.WithCancel(parent)
		cancel()
		return ctx, cancel
	}

	ctx, cancel := context.WithCancel(taskCtx)
	stop := context.AfterFunc(parent, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// finish records the outcome of a dequeued task.
func (r *TaskRunner) finish(t Task, runErr error) {
	r.release(t.ID())

	ctx := context.Background()
	status, msg, eventType := TaskStatusCompleted, "", events.TypeTaskCompleted
	if runErr != nil {
		status, msg, eventType = TaskStatusError, failureMessage(runErr), events.TypeTaskFailed
	}

	if err := r.registry.Update(ctx, t.ID(), status, msg); err != nil {
		if errors.Is(err, ErrTaskTerminal) {
			// Canceled by a caller while running
			r.logger.Debug("task outcome ignored, record already terminal",
				"task_id", t.ID(),
				"outcome", status)
			return
		}
		r.logger.Error("failed to record task outcome",
			"task_id", t.ID(),
			"status", status,
			"error", err)
		return
	}

	r.emit(events.NewTaskEvent(eventType, t.ID(), t.Type(), msg))
}

func (r *TaskRunner) release(id uuid.UUID) {
	r.mu.Lock()
	cancel, ok := r.tokens[id]
	delete(r.tokens, id)
	delete(r.ctxs, id)
	r.mu.Unlock()

	if ok {
		cancel()
	}
}

func (r *TaskRunner) emit(event *events.TaskEvent) {
	if r.emitter == nil {
		return
	}
	if err := r.emitter.EmitEvent(context.Background(), event); err != nil {
		r.logger.Warn("failed to emit task event",
			"event_type", event.Type,
			"task_id", event.TaskID,
			"error", err)
	}
}

// failureMessage renders runErr for the task record with credentials redacted.
func failureMessage(runErr error) string {
	switch {
	case errors.Is(runErr, ErrRunnerStopped):
		return MessageShuttingDown
	case errors.Is(runErr, context.DeadlineExceeded):
		return MessageTimedOut
	case errors.Is(runErr, context.Canceled):
		return MessageCanceled
	default:
		return redact.Error(runErr)
	}
}
