// Package client provides an MCP client for connecting to tool servers.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/toolwire/mcp-go/protocol"
	"github.com/toolwire/mcp-go/transport"
)

// connState tracks the connection through its lifecycle.
type connState int

const (
	stateCreated connState = iota
	stateInitializing
	stateReady
	stateClosed
)

func (s connState) String() string {
	switch s {
	case stateCreated:
		return "created"
	case stateInitializing:
		return "initializing"
	case stateReady:
		return "ready"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout     time.Duration
	clientName  string
	clientVer   string
	protocolVer string
	logger      *slog.Logger
}

// WithRequestTimeout sets the per-request deadline. The default is 30
// seconds.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithClientInfo sets the client name and version declared during the
// initialize handshake.
func WithClientInfo(name, version string) Option {
	return func(o *clientOptions) {
		o.clientName = name
		o.clientVer = version
	}
}

// WithProtocolVersion sets the protocol version to declare.
func WithProtocolVersion(version string) Option {
	return func(o *clientOptions) {
		o.protocolVer = version
	}
}

// WithLogger sets the logger for demux events. The default discards.
func WithLogger(log *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = log
	}
}

// Client is an MCP client. It owns a transport, correlates responses
// to outstanding requests by ID, and enforces the handshake-before-use
// state machine: tool calls fail with ErrNotInitialized until
// Initialize has completed.
type Client struct {
	transport transport.Transport
	opts      clientOptions
	log       *slog.Logger

	mu         sync.RWMutex
	state      connState
	serverInfo *protocol.ServerInfo
	serverCaps *protocol.ServerCapabilities

	// idMu guards the monotonic request ID counter; IDs are unique per
	// connection and start at 1.
	idMu   sync.Mutex
	nextID int64

	pendingMu sync.RWMutex
	pending   map[protocol.RequestID]chan *protocol.Response

	demuxCancel context.CancelFunc
	demuxDone   chan struct{}
}

// Connect spawns command as a child process, attaches a stdio
// transport, and performs the initialize handshake.
func Connect(ctx context.Context, command string, args []string, opts ...Option) (*Client, error) {
	tr, err := transport.Spawn(command, args)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	c := New(tr, opts...)
	if _, err := c.Initialize(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// New creates a client over an established transport and starts its
// demultiplexing loop. Call Initialize before issuing tool calls.
func New(tr transport.Transport, opts ...Option) *Client {
	options := clientOptions{
		timeout:     30 * time.Second,
		clientName:  "toolwire",
		clientVer:   "1.0.0",
		protocolVer: protocol.MCPVersion,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&options)
	}

	demuxCtx, cancel := context.WithCancel(context.Background())

	c := &Client{
		transport:   tr,
		opts:        options,
		log:         options.logger,
		nextID:      1,
		pending:     make(map[protocol.RequestID]chan *protocol.Response),
		demuxCancel: cancel,
		demuxDone:   make(chan struct{}),
	}

	go c.demux(demuxCtx)

	return c
}

// Initialize performs the MCP handshake: it declares this client's
// protocol version, capabilities, and identity, then records the
// server's answer. The connection is Ready once it returns nil.
func (c *Client) Initialize(ctx context.Context) (*protocol.InitializeResult, error) {
	c.mu.Lock()
	switch c.state {
	case stateClosed:
		c.mu.Unlock()
		return nil, ErrClosed
	case stateReady, stateInitializing:
		c.mu.Unlock()
		return nil, errors.New("client already initialized")
	}
	c.state = stateInitializing
	c.mu.Unlock()

	params := protocol.InitializeParams{
		ProtocolVersion: c.opts.protocolVer,
		Capabilities:    protocol.ClientCapabilities{},
		ClientInfo: protocol.ClientInfo{
			Name:    c.opts.clientName,
			Version: c.opts.clientVer,
		},
	}

	resp, err := c.call(ctx, protocol.MethodInitialize, params)
	if err != nil {
		c.mu.Lock()
		if c.state == stateInitializing {
			c.state = stateCreated
		}
		c.mu.Unlock()
		return nil, fmt.Errorf("initialize: %w", err)
	}

	var result protocol.InitializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		c.mu.Lock()
		if c.state == stateInitializing {
			c.state = stateCreated
		}
		c.mu.Unlock()
		return nil, &ProtocolError{Reason: "invalid initialize result", Err: err}
	}

	c.mu.Lock()
	c.serverInfo = &result.ServerInfo
	c.serverCaps = &result.Capabilities
	if c.state == stateInitializing {
		c.state = stateReady
	}
	c.mu.Unlock()

	return &result, nil
}

// ListTools returns the tools available on the server.
func (c *Client) ListTools(ctx context.Context) ([]protocol.ToolDescriptor, error) {
	if err := c.requireReady(); err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, protocol.MethodToolsList, struct{}{})
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}

	var result protocol.ListToolsResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, &ProtocolError{Reason: "invalid tools/list result", Err: err}
	}
	return result.Tools, nil
}

// CallTool invokes a named tool with the given arguments. A tool
// failure arrives as a successful call whose result has IsError set;
// only transport, protocol, and server errors surface as Go errors.
func (c *Client) CallTool(ctx context.Context, name string, arguments any) (*protocol.CallToolResult, error) {
	if err := c.requireReady(); err != nil {
		return nil, err
	}

	var args json.RawMessage
	if arguments != nil {
		var err error
		args, err = json.Marshal(arguments)
		if err != nil {
			return nil, fmt.Errorf("call tool %q: marshal arguments: %w", name, err)
		}
	}

	resp, err := c.call(ctx, protocol.MethodToolsCall, protocol.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return nil, fmt.Errorf("call tool %q: %w", name, err)
	}

	var result protocol.CallToolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, &ProtocolError{Reason: "invalid tools/call result", Err: err}
	}
	return &result, nil
}

// Ping checks that the peer is responsive.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.requireReady(); err != nil {
		return err
	}
	if _, err := c.call(ctx, protocol.MethodPing, struct{}{}); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// ServerInfo returns the server identity recorded during Initialize,
// or nil before the handshake completes.
func (c *Client) ServerInfo() *protocol.ServerInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverInfo
}

// ServerCapabilities returns the capabilities declared by the server,
// or nil before the handshake completes.
func (c *Client) ServerCapabilities() *protocol.ServerCapabilities {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverCaps
}

// IsRunning reports whether the server child process is still alive.
// Transports without a process always report true.
func (c *Client) IsRunning() bool {
	type runner interface{ IsRunning() bool }
	if r, ok := c.transport.(runner); ok {
		return r.IsRunning()
	}
	return true
}

// Close aborts the demux loop and closes the transport, killing a
// spawned server process. Outstanding callers observe ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.state == stateClosed {
		c.mu.Unlock()
		return nil
	}
	c.state = stateClosed
	c.mu.Unlock()

	c.demuxCancel()
	err := c.transport.Close()
	<-c.demuxDone
	return err
}

func (c *Client) requireReady() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch c.state {
	case stateReady:
		return nil
	case stateClosed:
		return ErrClosed
	default:
		return ErrNotInitialized
	}
}

// call sends one request and waits for its response. The pending entry
// is registered before the request is written so the demux loop can
// never race a fast response, and it is evicted on every exit path so
// timed-out requests do not leak table entries.
func (c *Client) call(ctx context.Context, method string, params any) (*protocol.Response, error) {
	c.idMu.Lock()
	id := protocol.NumberID(c.nextID)
	c.nextID++
	c.idMu.Unlock()

	req, err := protocol.NewRequest(id, method, params)
	if err != nil {
		return nil, err
	}

	ch := make(chan *protocol.Response, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	if err := c.transport.Send(req); err != nil {
		if errors.Is(err, transport.ErrClosed) {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("send request: %w", err)
	}

	if c.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.timeout)
		defer cancel()
	}

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	case resp, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		if resp.Error != nil {
			return nil, &ServerError{
				Code:    resp.Error.Code,
				Message: resp.Error.Message,
				Data:    resp.Error.Data,
			}
		}
		return resp, nil
	}
}

// demux routes inbound messages for the connection's lifetime.
// Responses resolve their pending entry by ID; arrival order carries
// no meaning. Everything else is logged and dropped.
func (c *Client) demux(ctx context.Context) {
	defer close(c.demuxDone)
	// Resolve any still-waiting callers once the loop exits.
	defer c.failPending()

	for {
		msg, err := c.transport.Receive(ctx)
		if err != nil {
			if !errors.Is(err, transport.ErrClosed) && !errors.Is(err, context.Canceled) {
				c.log.Debug("demux stopped", "error", err)
			}
			return
		}

		switch m := msg.(type) {
		case *protocol.Response:
			c.pendingMu.Lock()
			ch, ok := c.pending[m.ID]
			if ok {
				delete(c.pending, m.ID)
			}
			c.pendingMu.Unlock()

			if !ok {
				c.log.Warn("response for unknown request", "id", m.ID)
				continue
			}
			ch <- m
		case *protocol.Notification:
			// Extension point; nothing consumes these yet.
			c.log.Debug("notification received", "method", m.Method)
		case *protocol.Request:
			c.log.Warn("unexpected request from server", "method", m.Method, "id", m.ID)
		}
	}
}

// failPending closes every outstanding response channel so blocked
// callers observe ErrClosed.
func (c *Client) failPending() {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}
