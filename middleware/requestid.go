package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/toolwire/mcp-go/protocol"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const traceIDKey contextKey = "traceID"

// TraceID returns middleware that injects a unique trace ID into the
// context of each request. An ID already present is preserved, so a
// caller can propagate its own correlation IDs through the chain.
func TraceID() Middleware {
	return TraceIDWithGenerator(uuid.NewString)
}

// TraceIDWithGenerator returns trace ID middleware with a custom ID
// generator.
func TraceIDWithGenerator(generate func() string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			if TraceIDFromContext(ctx) == "" {
				ctx = ContextWithTraceID(ctx, generate())
			}
			return next(ctx, req)
		}
	}
}

// TraceIDFromContext returns the trace ID from the context, or the
// empty string if none is set.
func TraceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// ContextWithTraceID returns a new context carrying the trace ID.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}
