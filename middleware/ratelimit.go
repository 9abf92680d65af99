package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/ratelimit"

	"github.com/toolwire/mcp-go/protocol"
)

// RateLimitOption configures the rate limiter.
type RateLimitOption func(*rateLimitConfig)

type rateLimitConfig struct {
	keyFunc func(*protocol.Request) string
	log     *slog.Logger
}

// WithRateLimitKeyFunc sets the function that extracts the bucket key
// from a request, enabling per-method or per-client limits.
func WithRateLimitKeyFunc(fn func(*protocol.Request) string) RateLimitOption {
	return func(o *rateLimitConfig) {
		o.keyFunc = fn
	}
}

// WithRateLimitLogger sets the logger for rejected requests.
func WithRateLimitLogger(log *slog.Logger) RateLimitOption {
	return func(o *rateLimitConfig) {
		o.log = log
	}
}

// RateLimit returns middleware that limits request throughput with a
// token bucket of rate tokens per second and the given burst size.
// Rejected requests fail with a rate-limited error code.
func RateLimit(rate, burst int, opts ...RateLimitOption) Middleware {
	cfg := &rateLimitConfig{
		keyFunc: func(_ *protocol.Request) string { return "global" },
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	limiter := ratelimit.New(&ratelimit.Config{
		Rate:     rate,
		Burst:    burst,
		Interval: time.Second,
	})

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			key := cfg.keyFunc(req)

			if !limiter.Allow(ctx, key) {
				cfg.log.Warn("rate limit exceeded", "method", req.Method, "key", key)
				return nil, &protocol.Error{
					Code:    protocol.CodeRateLimited,
					Message: "rate limit exceeded",
				}
			}

			return next(ctx, req)
		}
	}
}

// RateLimitByMethod returns rate limiting middleware with one bucket
// per request method.
func RateLimitByMethod(rate, burst int, opts ...RateLimitOption) Middleware {
	allOpts := append([]RateLimitOption{
		WithRateLimitKeyFunc(func(req *protocol.Request) string {
			return req.Method
		}),
	}, opts...)
	return RateLimit(rate, burst, allOpts...)
}
