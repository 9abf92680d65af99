package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/toolwire/mcp-go/middleware"
	"github.com/toolwire/mcp-go/protocol"
	"github.com/toolwire/mcp-go/transport"
)

// ServeOption configures one Serve invocation.
type ServeOption func(*serveOptions)

type serveOptions struct {
	middleware []middleware.Middleware
}

// WithMiddleware appends middleware for this connection, after any
// registered with Use.
func WithMiddleware(mw ...middleware.Middleware) ServeOption {
	return func(o *serveOptions) {
		o.middleware = append(o.middleware, mw...)
	}
}

// Serve runs the request loop over an established transport until the
// context is canceled or the transport closes. Requests are handled
// concurrently; every request gets exactly one response.
func (s *Server) Serve(ctx context.Context, tr transport.Transport, opts ...ServeOption) error {
	var options serveOptions
	for _, opt := range opts {
		opt(&options)
	}

	sess := &session{srv: s, tr: tr}

	s.mu.RLock()
	mw := make([]middleware.Middleware, 0, len(s.middleware)+len(options.middleware))
	mw = append(mw, s.middleware...)
	s.mu.RUnlock()
	mw = append(mw, options.middleware...)
	sess.handle = middleware.Chain(mw...)(sess.dispatch)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		msg, err := tr.Receive(ctx)
		if err != nil {
			if errors.Is(err, transport.ErrClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("serve: %w", err)
		}

		switch m := msg.(type) {
		case *protocol.Request:
			wg.Add(1)
			go func() {
				defer wg.Done()
				sess.respond(ctx, m)
			}()
		case *protocol.Notification:
			s.log.Debug("notification received", "method", m.Method)
		case *protocol.Response:
			s.log.Warn("unexpected response from client", "id", m.ID)
		}
	}
}

// ServeStdio runs the server over the process's own stdin and stdout.
// This is the mode a client uses when it spawns the server as a child.
func (s *Server) ServeStdio(ctx context.Context, opts ...ServeOption) error {
	tr := transport.NewStdioTransport(os.Stdin, os.Stdout, transport.WithLogger(s.log))
	defer tr.Close()
	return s.Serve(ctx, tr, opts...)
}

// session tracks per-connection state. A server value may serve
// several transports; each gets its own handshake.
type session struct {
	srv         *Server
	tr          transport.Transport
	handle      middleware.HandlerFunc
	initialized atomic.Bool
}

// respond runs the handler and writes its answer, converting handler
// errors into JSON-RPC error responses so the peer never waits on a
// request that produced no reply.
func (s *session) respond(ctx context.Context, req *protocol.Request) {
	ctx = protocol.ContextWithRequestMeta(ctx, protocol.RequestMeta{
		"method": req.Method,
		"id":     req.ID.String(),
	})

	resp, err := s.handle(ctx, req)
	if err != nil {
		var protoErr *protocol.Error
		if !errors.As(err, &protoErr) {
			protoErr = protocol.NewInternalError(err.Error())
		}
		resp = protocol.NewErrorResponse(req.ID, protoErr)
	}

	if err := s.tr.Send(resp); err != nil && !errors.Is(err, transport.ErrClosed) {
		s.srv.log.Warn("failed to send response", "id", req.ID, "error", err)
	}
}

func (s *session) dispatch(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	switch req.Method {
	case protocol.MethodInitialize:
		return s.handleInitialize(req)
	case protocol.MethodToolsList:
		return s.handleToolsList(req)
	case protocol.MethodToolsCall:
		return s.handleToolsCall(ctx, req)
	case protocol.MethodPing:
		return protocol.NewResponse(req.ID, struct{}{})
	default:
		return nil, protocol.NewMethodNotFound(req.Method)
	}
}

func (s *session) handleInitialize(req *protocol.Request) (*protocol.Response, error) {
	info := s.srv.Info()
	s.initialized.Store(true)

	return protocol.NewResponse(req.ID, protocol.InitializeResult{
		ProtocolVersion: protocol.MCPVersion,
		Capabilities: protocol.ServerCapabilities{
			Tools: &protocol.ToolsCapability{},
		},
		ServerInfo: protocol.ServerInfo{
			Name:    info.Name,
			Version: info.Version,
		},
	})
}

func (s *session) handleToolsList(req *protocol.Request) (*protocol.Response, error) {
	if !s.initialized.Load() {
		return nil, protocol.NewInternalError("server not initialized")
	}

	tools := s.srv.Tools()
	if tools == nil {
		tools = []protocol.ToolDescriptor{}
	}
	return protocol.NewResponse(req.ID, protocol.ListToolsResult{Tools: tools})
}

func (s *session) handleToolsCall(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	if !s.initialized.Load() {
		return nil, protocol.NewInternalError("server not initialized")
	}

	var params protocol.CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, protocol.NewInvalidParams(err.Error())
	}

	tool, ok := s.srv.GetTool(params.Name)
	if !ok {
		return nil, protocol.NewInvalidParams("unknown tool: " + params.Name)
	}

	result, err := tool.Execute(ctx, NewToolInput(params.Arguments))
	if err != nil {
		// Bad requests surface as JSON-RPC errors; tool failures are
		// reported in-band so the call itself still succeeds.
		var protoErr *protocol.Error
		if errors.As(err, &protoErr) {
			return nil, protoErr
		}
		result = FailureResult(err.Error())
	}

	if !result.Success {
		return protocol.NewResponse(req.ID, protocol.CallToolResult{
			Content: []protocol.ToolContent{protocol.TextContent(result.Err)},
			IsError: true,
		})
	}

	text, err := json.MarshalIndent(result.Output, "", "  ")
	if err != nil {
		return nil, protocol.NewInternalError(fmt.Sprintf("failed to encode tool output: %v", err))
	}

	return protocol.NewResponse(req.ID, protocol.CallToolResult{
		Content: []protocol.ToolContent{protocol.TextContent(string(text))},
	})
}
