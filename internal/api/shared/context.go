package shared

import (
	"context"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

// WithTraceID returns a copy of ctx carrying id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

// SetTraceID attaches a trace id to ctx. A chi request id already on the
// context is reused so access logs and error responses agree; otherwise a
// random 32-character hex id is generated.
func SetTraceID(ctx context.Context) context.Context {
	if id := middleware.GetReqID(ctx); id != "" {
		return WithTraceID(ctx, id)
	}
	return WithTraceID(ctx, NewTraceID())
}

// GetTraceID returns the trace id of ctx, or "" when none is set.
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// NewTraceID returns a random 32-character hex id.
func NewTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
