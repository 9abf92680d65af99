// Package protocol defines the MCP JSON-RPC 2.0 message types and error codes.
//
// This package provides the low-level wire structures used by mcp-go.
// Most users should use the higher-level client and server packages
// instead.
//
// # Message Types
//
// A wire message is one of three shapes, modeled as the Message
// interface over Request, Response, and Notification. DecodeMessage
// discriminates inbound bytes by shape: a message with both an id and
// a method is a Request, one with an id and a result or error is a
// Response, and a method without an id is a Notification.
//
// Request IDs are either numbers or strings on the wire. The RequestID
// type preserves the variant, serializes as a bare scalar, and is
// comparable so it can key the client's pending-request table:
//
//	id := protocol.NumberID(1)
//	req, _ := protocol.NewRequest(id, protocol.MethodToolsList, nil)
//
// # Error Codes
//
// Standard JSON-RPC 2.0 error codes are defined as constants:
//
//	CodeParseError     = -32700  // Invalid JSON
//	CodeInvalidRequest = -32600  // Invalid Request object
//	CodeMethodNotFound = -32601  // Method not found
//	CodeInvalidParams  = -32602  // Invalid method parameters
//	CodeInternalError  = -32603  // Internal server error
//
// Helper functions create properly formatted errors:
//
//	err := protocol.NewMethodNotFound("unknown/method")
//	err := protocol.NewInvalidParams("missing required field: name")
//
// # MCP Method Constants
//
// Standard MCP method names are defined as constants:
//
//	MethodInitialize = "initialize"
//	MethodToolsList  = "tools/list"
//	MethodToolsCall  = "tools/call"
//	MethodPing       = "ping"
package protocol
