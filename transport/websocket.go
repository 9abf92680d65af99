package transport

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/toolwire/mcp-go/protocol"
)

// WebSocketTransport exchanges MCP messages over a single WebSocket
// connection, one JSON text message per Message. It implements the
// same Transport contract as StdioTransport, so a Server can serve
// tools to WebSocket peers unchanged.
type WebSocketTransport struct {
	conn *websocket.Conn
	log  *slog.Logger

	readTimeout  time.Duration
	writeTimeout time.Duration

	inbound chan protocol.Message
	quit    chan struct{}

	mu       sync.Mutex
	cond     *sync.Cond
	outbound []protocol.Message
	closed   bool

	writerDone chan struct{}
}

// WebSocketOption configures a WebSocketTransport.
type WebSocketOption func(*WebSocketTransport)

// WithWebSocketReadTimeout sets the per-message read deadline. Zero
// disables the deadline.
func WithWebSocketReadTimeout(d time.Duration) WebSocketOption {
	return func(t *WebSocketTransport) {
		t.readTimeout = d
	}
}

// WithWebSocketWriteTimeout sets the per-message write deadline.
func WithWebSocketWriteTimeout(d time.Duration) WebSocketOption {
	return func(t *WebSocketTransport) {
		t.writeTimeout = d
	}
}

// WithWebSocketLogger sets the logger used for skipped messages and
// worker errors.
func WithWebSocketLogger(log *slog.Logger) WebSocketOption {
	return func(t *WebSocketTransport) {
		t.log = log
	}
}

// DialWebSocket connects to a WebSocket MCP endpoint.
func DialWebSocket(ctx context.Context, url string, opts ...WebSocketOption) (*WebSocketTransport, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return NewWebSocketTransport(conn, opts...), nil
}

// UpgradeWebSocket upgrades an HTTP request to a WebSocket transport.
// The origin check accepts all origins; supply your own upgrader and
// NewWebSocketTransport if that is too permissive for your deployment.
func UpgradeWebSocket(w http.ResponseWriter, r *http.Request, opts ...WebSocketOption) (*WebSocketTransport, error) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return NewWebSocketTransport(conn, opts...), nil
}

// NewWebSocketTransport wraps an established WebSocket connection.
func NewWebSocketTransport(conn *websocket.Conn, opts ...WebSocketOption) *WebSocketTransport {
	t := &WebSocketTransport{
		conn:         conn,
		log:          slog.New(slog.DiscardHandler),
		writeTimeout: 10 * time.Second,
		inbound:      make(chan protocol.Message, 16),
		quit:         make(chan struct{}),
		writerDone:   make(chan struct{}),
	}
	t.cond = sync.NewCond(&t.mu)

	for _, opt := range opts {
		opt(t)
	}

	go t.readLoop()
	go t.writeLoop()

	return t
}

// Send enqueues a message for delivery.
func (t *WebSocketTransport) Send(msg protocol.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	t.outbound = append(t.outbound, msg)
	t.cond.Signal()
	return nil
}

// Receive yields the next inbound message, or ErrClosed once the
// connection has ended.
func (t *WebSocketTransport) Receive(ctx context.Context) (protocol.Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg, ok := <-t.inbound:
		if !ok {
			return nil, ErrClosed
		}
		return msg, nil
	}
}

// Close sends a close frame and tears down the connection.
func (t *WebSocketTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.cond.Broadcast()
	t.mu.Unlock()

	close(t.quit)

	_ = t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := t.conn.Close()

	<-t.writerDone
	return err
}

func (t *WebSocketTransport) readLoop() {
	defer close(t.inbound)

	for {
		if t.readTimeout > 0 {
			_ = t.conn.SetReadDeadline(time.Now().Add(t.readTimeout))
		}

		_, data, err := t.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				t.log.Debug("reader stopped", "error", err)
			}
			return
		}

		msg, err := protocol.DecodeMessage(data)
		if err != nil {
			t.log.Warn("skipping malformed message", "error", err)
			continue
		}

		select {
		case t.inbound <- msg:
		case <-t.quit:
			return
		}
	}
}

func (t *WebSocketTransport) writeLoop() {
	defer close(t.writerDone)

	for {
		t.mu.Lock()
		for len(t.outbound) == 0 && !t.closed {
			t.cond.Wait()
		}
		if len(t.outbound) == 0 && t.closed {
			t.mu.Unlock()
			return
		}
		msg := t.outbound[0]
		t.outbound = t.outbound[1:]
		t.mu.Unlock()

		data, err := protocol.EncodeMessage(msg)
		if err != nil {
			t.log.Error("failed to encode message", "error", err)
			continue
		}

		if t.writeTimeout > 0 {
			_ = t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
		}
		if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			t.log.Debug("writer stopped", "error", err)
			return
		}
	}
}
