// Package transport provides framed duplex transports for MCP messages.
package transport

import (
	"context"
	"errors"

	"github.com/toolwire/mcp-go/protocol"
)

// ErrClosed is returned by Send and Receive once a transport has shut
// down, either via Close or because the underlying stream ended.
var ErrClosed = errors.New("transport closed")

// Transport is a reliable, ordered, bidirectional message channel.
//
// Send enqueues a message for delivery and never blocks on peer I/O.
// Receive yields the next successfully parsed inbound message, or
// ErrClosed when the stream has ended. Both are safe for concurrent
// use.
type Transport interface {
	Send(msg protocol.Message) error
	Receive(ctx context.Context) (protocol.Message, error)
	Close() error
}
