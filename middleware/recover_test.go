package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/toolwire/mcp-go/protocol"
)

func TestRecover_ConvertsPanicToInternalError(t *testing.T) {
	handler := Recover()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		panic("tool exploded")
	})

	_, err := handler(context.Background(), newReq(t, "tools/call"))

	var protoErr *protocol.Error
	if !errors.As(err, &protoErr) {
		t.Fatalf("error = %v, want *protocol.Error", err)
	}
	if protoErr.Code != protocol.CodeInternalError {
		t.Errorf("code = %d, want %d", protoErr.Code, protocol.CodeInternalError)
	}
	if !strings.Contains(protoErr.Message, "tool exploded") {
		t.Errorf("message = %q, want panic value included", protoErr.Message)
	}
}

func TestRecover_PassesThroughNormally(t *testing.T) {
	handler := Recover()(okHandler)
	resp, err := handler(context.Background(), newReq(t, "ping"))
	if err != nil || resp == nil {
		t.Fatalf("handler = (%v, %v), want response", resp, err)
	}
}

func TestRecoverWithHandler(t *testing.T) {
	var got any
	handler := RecoverWithHandler(func(ctx context.Context, req *protocol.Request, panicVal any) (*protocol.Response, error) {
		got = panicVal
		return protocol.NewErrorResponse(req.ID, protocol.NewInternalError("handled")), nil
	})(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		panic(42)
	})

	resp, err := handler(context.Background(), newReq(t, "tools/call"))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if got != 42 {
		t.Errorf("panic value = %v, want 42", got)
	}
	if resp.Error == nil || resp.Error.Message != "handled" {
		t.Errorf("response error = %v, want custom message", resp.Error)
	}
}
