package task

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// TaskHooks customize how the pool runs a task.
type TaskHooks struct {
	// Prepare derives the execution context of a task from the worker context.
	// When nil, tasks run on the worker context.
	Prepare func(ctx context.Context, task Task) (context.Context, context.CancelFunc)

	// Done is called exactly once per dequeued task with its outcome. A panic
	// during execution is reported as an error.
	Done func(task Task, err error)
}

// WorkerPool manages a pool of worker goroutines that process tasks
// from a task queue. It handles graceful shutdown and worker lifecycle.
type WorkerPool struct {
	// taskQueue provides read access to the tasks to be processed
	taskQueue TaskQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// executionTimeout bounds a single task; zero means unbounded
	executionTimeout time.Duration

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	// ctx is used for cancellation and shutdown signaling
	ctx context.Context

	// cancel is the function to call to cancel the context
	cancel context.CancelFunc

	// logger for structured logging
	logger *slog.Logger

	hooks TaskHooks
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int

	// ExecutionTimeout bounds each task run. Zero disables the bound.
	ExecutionTimeout time.Duration
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 4,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(taskQueue TaskQueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	// Apply defaults for invalid config values
	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	// Create a cancelable context for shutdown coordination
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		taskQueue:        taskQueue,
		workerCount:      workerCount,
		executionTimeout: config.ExecutionTimeout,
		wg:               sync.WaitGroup{},
		ctx:              ctx,
		cancel:           cancel,
		logger:           logger,
	}
}

// SetHooks installs the task hooks. It must be called before Start.
func (p *WorkerPool) SetHooks(hooks TaskHooks) {
	p.hooks = hooks
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	p.logger.Info("starting worker pool", "worker_count", p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop cancels in-flight tasks and waits for every worker to exit.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// worker processes tasks from the queue
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", "worker_id", id)

	for {
		// Stop takes priority over queued work
		if p.ctx.Err() != nil {
			p.logger.Debug("stopping worker", "worker_id", id)
			return
		}

		select {
		case <-p.ctx.Done():
			p.logger.Debug("stopping worker", "worker_id", id)
			return

		case task, ok := <-p.taskQueue.GetChannel():
			if !ok {
				p.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}
			p.processTask(task, id)
		}
	}
}

// processTask handles execution of a single task
func (p *WorkerPool) processTask(task Task, workerID int) {
	logger := p.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	ctx, cancel := p.taskContext(task)
	defer cancel()

	var err error
	if err = ctx.Err(); err != nil {
		logger.Info("skipping task canceled before execution")
	} else {
		start := time.Now()
		logger.Info("processing task")
		err = p.execute(ctx, task)
		if err != nil {
			logger.Error("task execution failed",
				"error", err,
				"duration_ms", time.Since(start).Milliseconds())
		} else {
			logger.Info("task completed successfully",
				"duration_ms", time.Since(start).Milliseconds())
		}
	}

	if p.hooks.Done != nil {
		p.hooks.Done(task, err)
	}
}

func (p *WorkerPool) taskContext(task Task) (context.Context, context.CancelFunc) {
	ctx, cancel := p.ctx, context.CancelFunc(func() {})
	if p.hooks.Prepare != nil {
		ctx, cancel = p.hooks.Prepare(p.ctx, task)
	}
	if p.executionTimeout <= 0 {
		return ctx, cancel
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(ctx, p.executionTimeout)
	return timeoutCtx, func() {
		timeoutCancel()
		cancel()
	}
}

// execute runs task, converting a panic into an error.
func (p *WorkerPool) execute(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked",
				"task_id", task.ID(),
				"panic", r,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task.Execute(ctx)
}
