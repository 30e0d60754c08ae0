package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// subscription binds a handler to the event types it receives. A nil type
// set receives everything.
type subscription struct {
	handler EventHandler
	types   map[string]struct{}
}

func (s subscription) wants(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// InMemoryEventEmitter delivers events synchronously to subscribed handlers
// in registration order.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter with no subscribers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{
		logger: logger.With("component", "event_emitter"),
	}
}

// RegisterHandler subscribes handler to the given event types, or to every
// type when none are named.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, types ...string) {
	sub := subscription{handler: handler}
	if len(types) > 0 {
		sub.types = make(map[string]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}

	e.mu.Lock()
	e.subs = append(e.subs, sub)
	n := len(e.subs)
	e.mu.Unlock()

	e.logger.Debug("registered event handler", "handler_count", n, "event_types", types)
}

// HandlerCount returns the number of subscriptions.
func (e *InMemoryEventEmitter) HandlerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs)
}

// EmitEvent delivers event to every matching handler. A failing or panicking
// handler does not stop delivery to the rest; all failures are joined into
// the returned error.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *TaskEvent) error {
	e.mu.RLock()
	subs := make([]subscription, len(e.subs))
	copy(subs, e.subs)
	e.mu.RUnlock()

	var errs []error
	for i, sub := range subs {
		if !sub.wants(event.Type) {
			continue
		}
		if err := deliver(ctx, sub.handler, event); err != nil {
			e.logger.Error("event handler failed",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type,
				"task_id", event.TaskID)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func deliver(ctx context.Context, h EventHandler, event *TaskEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panicked: %v", r)
		}
	}()
	return h.HandleEvent(ctx, event)
}

// NewLoggingHandler returns a handler that writes every event to logger.
// Failures log at WARN.
func NewLoggingHandler(logger *slog.Logger) EventHandler {
	return EventHandlerFunc(func(ctx context.Context, event *TaskEvent) error {
		level := slog.LevelInfo
		if event.Type == TypeTaskFailed {
			level = slog.LevelWarn
		}
		attrs := []any{
			"event_type", event.Type,
			"task_id", event.TaskID,
			"operation", event.Operation,
		}
		if event.Error != "" {
			attrs = append(attrs, "error", event.Error)
		}
		logger.Log(ctx, level, "task lifecycle event", attrs...)
		return nil
	})
}
