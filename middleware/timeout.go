package middleware

import (
	"context"
	"time"

	"github.com/toolwire/mcp-go/protocol"
)

// Timeout returns middleware that enforces a per-request deadline. A
// handler that overruns sees its context canceled and the chain
// returns context.DeadlineExceeded.
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, req)
		}
	}
}
