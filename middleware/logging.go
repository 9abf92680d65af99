package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/toolwire/mcp-go/protocol"
)

// Logging returns middleware that logs one line per request.
// Successful requests are logged at info level, failures at error
// level.
func Logging(log *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			attrs := []any{
				slog.String("method", req.Method),
				slog.String("id", req.ID.String()),
				slog.Duration("duration", time.Since(start)),
			}
			if traceID := TraceIDFromContext(ctx); traceID != "" {
				attrs = append(attrs, slog.String("trace_id", traceID))
			}

			switch {
			case err != nil:
				attrs = append(attrs, slog.String("error", err.Error()))
				log.Error("request failed", attrs...)
			case resp != nil && resp.Error != nil:
				attrs = append(attrs,
					slog.Int("code", resp.Error.Code),
					slog.String("error", resp.Error.Message),
				)
				log.Warn("request rejected", attrs...)
			default:
				log.Info("request completed", attrs...)
			}

			return resp, err
		}
	}
}
