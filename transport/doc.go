// Package transport provides framed duplex transports for MCP messages.
//
// A Transport carries protocol.Message values both ways over some byte
// channel. Two implementations are provided.
//
// # Stdio Transport
//
// The stdio transport frames one JSON object per newline-terminated
// line. Spawn launches a tool server as a child process with piped
// stdin/stdout:
//
//	t, err := transport.Spawn("my-tool-server", nil)
//
// NewStdioTransport attaches to existing streams instead, which is how
// a server process speaks over its own stdio:
//
//	t := transport.NewStdioTransport(os.Stdin, os.Stdout)
//
// Each transport owns two background workers. The reader scans lines
// from the peer, skipping blanks and logging malformed JSON without
// terminating; the writer drains an unbounded outbound queue so Send
// never blocks the caller. Closing the transport stops both workers
// and force-kills a spawned child.
//
// # WebSocket Transport
//
// The WebSocket transport carries the same messages over a WebSocket
// connection, one JSON text frame per message:
//
//	t, err := transport.DialWebSocket(ctx, "ws://localhost:8080/mcp")
package transport
