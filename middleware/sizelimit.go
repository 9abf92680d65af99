package middleware

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/toolwire/mcp-go/protocol"
)

// Common size limit presets.
const (
	KB = 1024
	MB = 1024 * 1024
)

// SizeLimitOption configures the size limit middleware.
type SizeLimitOption func(*sizeLimitConfig)

type sizeLimitConfig struct {
	log *slog.Logger
}

// WithSizeLimitLogger sets the logger for rejected requests.
func WithSizeLimitLogger(log *slog.Logger) SizeLimitOption {
	return func(o *sizeLimitConfig) {
		o.log = log
	}
}

// SizeLimit returns middleware that rejects requests whose params
// exceed maxBytes.
func SizeLimit(maxBytes int64, opts ...SizeLimitOption) Middleware {
	cfg := &sizeLimitConfig{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			if size := int64(len(req.Params)); size > maxBytes {
				cfg.log.Warn("request size limit exceeded",
					"method", req.Method, "size", size, "max", maxBytes)
				return nil, protocol.NewInvalidRequest(
					fmt.Sprintf("request size %d exceeds limit of %d bytes", size, maxBytes))
			}

			return next(ctx, req)
		}
	}
}
