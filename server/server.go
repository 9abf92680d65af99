// Package server provides the core MCP server implementation.
package server

import (
	"log/slog"
	"sync"

	"github.com/toolwire/mcp-go/middleware"
	"github.com/toolwire/mcp-go/protocol"
)

// Info contains server metadata exposed to clients during the
// initialize handshake.
type Info struct {
	Name    string
	Version string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for dispatch events. The default
// discards.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// Server holds a registry of named tools and serves them over a
// transport. Tools may be registered before or while serving; the
// table is read-locked during dispatch.
type Server struct {
	mu sync.RWMutex

	info       Info
	tools      map[string]Tool
	middleware []middleware.Middleware
	log        *slog.Logger
}

// New creates a new MCP server with the given info and options.
func New(info Info, opts ...Option) *Server {
	s := &Server{
		info:  info,
		tools: make(map[string]Tool),
		log:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Info returns the server metadata.
func (s *Server) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// Use registers middleware executed on every request, outermost first.
func (s *Server) Use(mw ...middleware.Middleware) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.middleware = append(s.middleware, mw...)
}

// Tool starts building a new typed tool with the given name.
// Registering a tool under a name that is already taken replaces the
// earlier entry.
func (s *Server) Tool(name string) *ToolBuilder {
	return &ToolBuilder{
		tool: &typedTool{
			name: name,
		},
		server: s,
	}
}

// RegisterTool adds a tool to the registry.
func (s *Server) RegisterTool(t Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools[t.Name()] = t
}

// GetTool returns the tool registered under name.
func (s *Server) GetTool(name string) (Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tools[name]
	return t, ok
}

// Tools returns descriptors for all registered tools.
func (s *Server) Tools() []protocol.ToolDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]protocol.ToolDescriptor, 0, len(s.tools))
	for _, t := range s.tools {
		result = append(result, protocol.ToolDescriptor{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return result
}
