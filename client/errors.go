package client

import (
	"errors"
	"fmt"
)

// Sentinel errors returned synchronously for precondition violations.
var (
	// ErrNotInitialized is returned when tools/list or tools/call is
	// attempted before the initialize handshake has completed.
	ErrNotInitialized = errors.New("client not initialized")

	// ErrClosed is returned once the connection has shut down.
	ErrClosed = errors.New("client closed")

	// ErrTimeout is returned when no matching response arrives within
	// the request deadline.
	ErrTimeout = errors.New("request timed out")
)

// ServerError carries an explicit JSON-RPC error returned by the peer.
type ServerError struct {
	Code    int
	Message string
	Data    any
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %s (code: %d)", e.Message, e.Code)
}

// ProtocolError reports a malformed or unexpected result shape. The
// connection itself may continue to be used.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
	}
	return "protocol error: " + e.Reason
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
