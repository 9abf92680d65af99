package middleware

import (
	"context"
	"testing"

	"github.com/toolwire/mcp-go/protocol"
)

func newReq(t testing.TB, method string) *protocol.Request {
	t.Helper()
	req, err := protocol.NewRequest(protocol.NumberID(1), method, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func okHandler(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	return protocol.NewResponse(req.ID, struct{}{})
}

func TestChain_Order(t *testing.T) {
	var order []string

	tag := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				order = append(order, name+"-before")
				resp, err := next(ctx, req)
				order = append(order, name+"-after")
				return resp, err
			}
		}
	}

	handler := Chain(tag("outer"), tag("inner"))(okHandler)
	if _, err := handler(context.Background(), newReq(t, "tools/list")); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	want := []string{"outer-before", "inner-before", "inner-after", "outer-after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestChain_Empty(t *testing.T) {
	handler := Chain()(okHandler)
	resp, err := handler(context.Background(), newReq(t, "ping"))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if resp == nil {
		t.Fatal("handler returned nil response")
	}
}
