// Package middleware provides request middleware for MCP request
// handling on either side of the connection.
package middleware

import (
	"context"

	"github.com/toolwire/mcp-go/protocol"
)

// HandlerFunc is the signature for request handlers.
type HandlerFunc func(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

// Middleware wraps a handler with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middleware into a single middleware. Chain(m1, m2)
// produces m1 wrapping m2 wrapping the final handler, so m1 runs
// first.
func Chain(middlewares ...Middleware) Middleware {
	return func(final HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
