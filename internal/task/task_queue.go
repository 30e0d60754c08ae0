package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Queue errors. ErrQueueFull is the backpressure signal surfaced to callers.
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// QueueStats is a point-in-time view of a TaskQueue.
type QueueStats struct {
	Len      int    `json:"len"`
	Cap      int    `json:"cap"`
	Accepted uint64 `json:"accepted"`
	Rejected uint64 `json:"rejected"`
}

// TaskQueue is a bounded FIFO of accepted tasks. Enqueue never blocks; a
// full buffer is reported as ErrQueueFull so the request path can reject.
type TaskQueue struct {
	mu       sync.Mutex
	tasks    chan Task
	closed   bool
	accepted uint64
	rejected uint64
	logger   *slog.Logger
}

// NewTaskQueue creates a queue holding at most size tasks. Sizes below one
// are raised to one.
func NewTaskQueue(size int, logger *slog.Logger) *TaskQueue {
	return &TaskQueue{
		tasks:  make(chan Task, max(size, 1)),
		logger: logger,
	}
}

// Enqueue adds t without blocking. It fails with ErrQueueClosed after Close
// and with ErrQueueFull when the buffer has no room.
func (q *TaskQueue) Enqueue(t Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.rejected++
		return ErrQueueClosed
	}

	select {
	case q.tasks <- t:
		q.accepted++
		q.logger.Debug("task enqueued",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"queue_len", len(q.tasks),
			"queue_cap", cap(q.tasks))
		return nil
	default:
		q.rejected++
		return fmt.Errorf("%w: capacity %d reached", ErrQueueFull, cap(q.tasks))
	}
}

// Close stops further submission. Tasks already queued remain readable from
// GetChannel until drained. Close is idempotent.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.tasks)
	q.logger.Info("task queue closed", "pending", len(q.tasks))
}

// GetChannel returns the receive side consumed by the worker pool.
func (q *TaskQueue) GetChannel() <-chan Task {
	return q.tasks
}

// Len returns the number of queued tasks.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// Cap returns the queue capacity.
func (q *TaskQueue) Cap() int {
	return cap(q.tasks)
}

// Stats returns the current depth and the lifetime accept/reject counts.
func (q *TaskQueue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Len:      len(q.tasks),
		Cap:      cap(q.tasks),
		Accepted: q.accepted,
		Rejected: q.rejected,
	}
}
