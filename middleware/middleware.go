package middleware

import (
	"log/slog"
	"time"
)

// DefaultStack returns the recommended production middleware stack:
// panic recovery, trace ID injection, and logging.
func DefaultStack(log *slog.Logger) []Middleware {
	return []Middleware{
		Recover(),
		TraceID(),
		Logging(log),
	}
}

// DefaultStackWithTimeout returns the default stack plus a per-request
// deadline.
func DefaultStackWithTimeout(log *slog.Logger, timeout time.Duration) []Middleware {
	return []Middleware{
		Recover(),
		TraceID(),
		Timeout(timeout),
		Logging(log),
	}
}
