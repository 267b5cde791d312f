// Package mcp implements the protocol core of the test server: JSON-RPC 2.0
// envelopes, the closed error taxonomy, the fixed tool catalog, and the
// dispatcher that routes message units to handlers.
package mcp

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Request represents a JSON-RPC 2.0 request or notification envelope.
// ID keeps the raw bytes so a response can echo the id verbatim, whatever
// JSON type the client used. A missing id member makes the envelope a
// notification; an explicit "id": null is still a call.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the envelope carries no id member.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response represents a JSON-RPC 2.0 response payload.
// Either Result or Error will be set, never both.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ContentBlock is the sole content kind tool results produce.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextContent wraps text in a content block.
func TextContent(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// Descriptor describes one callable tool as advertised by tools/list.
type Descriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

// ServerInfo identifies the server in the initialize handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capabilities is the static capability set advertised by initialize.
// Tool listing and invocation is the only capability this server carries.
type Capabilities struct {
	Tools ToolCapabilities `json:"tools"`
}

// ToolCapabilities advertises tool-related capabilities.
type ToolCapabilities struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// InitializeResult is the fixed negotiation payload returned by initialize.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// ListToolsResult is the tools/list result payload.
type ListToolsResult struct {
	Tools []Descriptor `json:"tools"`
}

// CallToolParams is the tools/call params shape. Arguments stays raw so the
// dispatcher can tell "absent" apart from "present but not an object".
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// CallToolResult is the tools/call result payload.
type CallToolResult struct {
	Content []ContentBlock `json:"content"`
}
