package protocol

import "encoding/json"

// ClientInfo identifies a connecting client.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerInfo identifies a serving peer.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolsCapability declares tool-related capabilities.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ClientCapabilities declares the features a client supports.
type ClientCapabilities struct {
	Experimental json.RawMessage `json:"experimental,omitempty"`
}

// ServerCapabilities declares the features a server supports.
type ServerCapabilities struct {
	Tools        *ToolsCapability `json:"tools,omitempty"`
	Experimental json.RawMessage  `json:"experimental,omitempty"`
}

// InitializeParams are the parameters of the initialize request.
type InitializeParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      ClientInfo         `json:"clientInfo"`
}

// InitializeResult is the result of the initialize request.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// ToolDescriptor describes one invocable tool as reported by tools/list.
type ToolDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

// ListToolsResult is the result of tools/list.
type ListToolsResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

// CallToolParams are the parameters of tools/call.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// CallToolResult is the result of tools/call. IsError marks a tool
// failure inside an otherwise successful RPC exchange.
type CallToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// Tool content types.
const (
	ContentTypeText     = "text"
	ContentTypeImage    = "image"
	ContentTypeResource = "resource"
)

// ToolContent is one content block in a tool result. Type selects the
// variant: text carries Text, image carries Data+MimeType, resource
// carries URI and an optional MimeType.
type ToolContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// TextContent creates a text content block.
func TextContent(text string) ToolContent {
	return ToolContent{Type: ContentTypeText, Text: text}
}

// ImageContent creates an image content block with base64 data.
func ImageContent(data, mimeType string) ToolContent {
	return ToolContent{Type: ContentTypeImage, Data: data, MimeType: mimeType}
}

// ResourceContent creates a resource content block.
func ResourceContent(uri string) ToolContent {
	return ToolContent{Type: ContentTypeResource, URI: uri}
}
