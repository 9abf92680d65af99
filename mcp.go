// Package mcp implements the Model Context Protocol over JSON-RPC 2.0,
// giving a host application typed access to external tool servers.
//
// The package has two halves. The server side registers named tools
// with typed handlers and serves them over a transport:
//
//	srv := mcp.NewServer(mcp.ServerInfo{
//	    Name:    "my-server",
//	    Version: "1.0.0",
//	})
//
//	type SearchInput struct {
//	    Query string `json:"query" jsonschema:"required"`
//	}
//
//	srv.Tool("search").
//	    Description("Search for items").
//	    Handler(func(ctx context.Context, input SearchInput) ([]string, error) {
//	        return []string{"result1", "result2"}, nil
//	    })
//
//	mcp.ServeStdio(ctx, srv)
//
// The client side spawns a server as a child process, performs the
// initialize handshake, and issues tool calls over its stdio:
//
//	c, err := mcp.Connect(ctx, "my-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	result, err := c.CallTool(ctx, "search", map[string]any{"query": "go"})
package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/toolwire/mcp-go/client"
	"github.com/toolwire/mcp-go/middleware"
	"github.com/toolwire/mcp-go/protocol"
	"github.com/toolwire/mcp-go/server"
	"github.com/toolwire/mcp-go/transport"
)

// Re-export core types for convenience

// ServerInfo contains server metadata exposed to clients.
type ServerInfo = server.Info

// Server is the MCP server instance.
type Server = server.Server

// Option configures a Server.
type Option = server.Option

// ServeOption configures a single Serve call.
type ServeOption = server.ServeOption

// Client is an MCP client connection.
type Client = client.Client

// ClientOption configures a Client.
type ClientOption = client.Option

// Tool content and descriptor types.
type (
	ToolDescriptor = protocol.ToolDescriptor
	ToolContent    = protocol.ToolContent
	CallToolResult = protocol.CallToolResult
)

// Tool implementation types for hand-built tools.
type (
	Tool       = server.Tool
	ToolInput  = server.ToolInput
	ToolResult = server.ToolResult
)

// Tool result constructors.
var (
	SuccessResult = server.SuccessResult
	FailureResult = server.FailureResult
)

// WithMiddleware attaches middleware to a single Serve call.
var WithMiddleware = server.WithMiddleware

// Middleware types.
type (
	Middleware  = middleware.Middleware
	HandlerFunc = middleware.HandlerFunc
)

// Middleware re-exports for convenience.
var (
	Chain                   = middleware.Chain
	Recover                 = middleware.Recover
	TraceID                 = middleware.TraceID
	Timeout                 = middleware.Timeout
	Logging                 = middleware.Logging
	RateLimit               = middleware.RateLimit
	RateLimitByMethod       = middleware.RateLimitByMethod
	SizeLimit               = middleware.SizeLimit
	OTel                    = middleware.OTel
	DefaultStack            = middleware.DefaultStack
	DefaultStackWithTimeout = middleware.DefaultStackWithTimeout
)

// Size limit presets.
const (
	KB = middleware.KB
	MB = middleware.MB
)

// Client option re-exports.
var (
	WithClientInfo      = client.WithClientInfo
	WithProtocolVersion = client.WithProtocolVersion
	WithRequestTimeout  = client.WithRequestTimeout
	WithClientLogger    = client.WithLogger
)

// Client error re-exports.
var (
	ErrNotInitialized = client.ErrNotInitialized
	ErrClientClosed   = client.ErrClosed
	ErrTimeout        = client.ErrTimeout
)

// NewServer creates a new MCP server with the given info and options.
func NewServer(info ServerInfo, opts ...Option) *Server {
	return server.New(info, opts...)
}

// ServeStdio runs the server over the process's stdin and stdout until
// the context is canceled or the peer disconnects.
func ServeStdio(ctx context.Context, srv *Server, opts ...ServeOption) error {
	return srv.ServeStdio(ctx, opts...)
}

// Connect spawns command as a child process and returns an initialized
// client talking to it over stdio.
func Connect(ctx context.Context, command string, args []string, opts ...ClientOption) (*Client, error) {
	return client.Connect(ctx, command, args, opts...)
}

// NewClient creates a client over an established transport.
func NewClient(tr transport.Transport, opts ...ClientOption) *Client {
	return client.New(tr, opts...)
}

// WithServerLogger sets the server's logger.
func WithServerLogger(log *slog.Logger) Option {
	return server.WithLogger(log)
}

// DefaultRequestTimeout is the per-request deadline clients apply when
// none is configured.
const DefaultRequestTimeout = 30 * time.Second
