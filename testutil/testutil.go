// Package testutil provides in-memory plumbing for testing MCP
// clients and servers without spawning processes.
//
// A typical server test connects a real client to a real server over
// a pipe:
//
//	srv := server.New(server.Info{Name: "test", Version: "1.0.0"})
//	srv.Tool("greet").Handler(func(in GreetInput) (string, error) {
//	    return "Hello, " + in.Name, nil
//	})
//
//	c := testutil.StartServer(t, srv)
//	result, err := c.CallTool(ctx, "greet", map[string]any{"name": "World"})
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/toolwire/mcp-go/client"
	"github.com/toolwire/mcp-go/protocol"
	"github.com/toolwire/mcp-go/server"
	"github.com/toolwire/mcp-go/transport"
)

// PipeTransport is one end of an in-memory duplex connection.
type PipeTransport struct {
	in  chan protocol.Message
	out chan protocol.Message

	mu     sync.Mutex
	closed chan struct{}
	done   bool
}

// NewPipe returns two connected transports: messages sent on one are
// received on the other. Closing either end closes both directions.
func NewPipe() (*PipeTransport, *PipeTransport) {
	ab := make(chan protocol.Message, 64)
	ba := make(chan protocol.Message, 64)
	closed := make(chan struct{})

	a := &PipeTransport{in: ba, out: ab, closed: closed}
	b := &PipeTransport{in: ab, out: ba, closed: closed}
	return a, b
}

// Send delivers a message to the peer end.
func (p *PipeTransport) Send(msg protocol.Message) error {
	select {
	case <-p.closed:
		return transport.ErrClosed
	case p.out <- msg:
		return nil
	}
}

// Receive returns the next message from the peer end.
func (p *PipeTransport) Receive(ctx context.Context) (protocol.Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.closed:
		return nil, transport.ErrClosed
	case msg := <-p.in:
		return msg, nil
	}
}

// Close shuts down both ends of the pipe. It is safe to call from
// either side, repeatedly.
func (p *PipeTransport) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.done {
		p.done = true
		select {
		case <-p.closed:
		default:
			close(p.closed)
		}
	}
	return nil
}

// StartServer serves srv over an in-memory pipe and returns an
// initialized client connected to it. Both sides are shut down during
// test cleanup.
func StartServer(t testing.TB, srv *server.Server, opts ...client.Option) *client.Client {
	t.Helper()

	clientEnd, serverEnd := NewPipe()

	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan struct{})
	go func() {
		defer close(serveDone)
		if err := srv.Serve(ctx, serverEnd); err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	}()

	c := client.New(clientEnd, opts...)
	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		<-serveDone
	})

	if _, err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return c
}
