package middleware

import (
	"context"
	"testing"

	"github.com/toolwire/mcp-go/protocol"
)

func TestTraceID_InjectsID(t *testing.T) {
	var seen string
	handler := TraceID()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		seen = TraceIDFromContext(ctx)
		return okHandler(ctx, req)
	})

	if _, err := handler(context.Background(), newReq(t, "tools/list")); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if seen == "" {
		t.Error("no trace ID injected")
	}
}

func TestTraceID_Unique(t *testing.T) {
	var ids []string
	handler := TraceID()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		ids = append(ids, TraceIDFromContext(ctx))
		return okHandler(ctx, req)
	})

	for range 3 {
		if _, err := handler(context.Background(), newReq(t, "ping")); err != nil {
			t.Fatalf("handler error = %v", err)
		}
	}
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("trace ID %q repeated", id)
		}
		seen[id] = true
	}
}

func TestTraceID_PreservesExisting(t *testing.T) {
	var seen string
	handler := TraceID()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		seen = TraceIDFromContext(ctx)
		return okHandler(ctx, req)
	})

	ctx := ContextWithTraceID(context.Background(), "upstream-id")
	if _, err := handler(ctx, newReq(t, "ping")); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if seen != "upstream-id" {
		t.Errorf("trace ID = %q, want %q", seen, "upstream-id")
	}
}

func TestTraceIDWithGenerator(t *testing.T) {
	var seen string
	handler := TraceIDWithGenerator(func() string { return "fixed" })(
		func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			seen = TraceIDFromContext(ctx)
			return okHandler(ctx, req)
		})

	if _, err := handler(context.Background(), newReq(t, "ping")); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if seen != "fixed" {
		t.Errorf("trace ID = %q, want %q", seen, "fixed")
	}
}
