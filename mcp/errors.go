package mcp

import (
	"encoding/json"
	"fmt"
)

// Standard JSON-RPC error codes used in this project.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// nullID is the response id for input that could not be parsed into an
// envelope, the one case where no request id can be recovered.
var nullID = json.RawMessage("null")

// ToolErrorKind classifies a failed tool invocation.
type ToolErrorKind int

const (
	// ToolNotFound means no tool with the requested name is registered.
	ToolNotFound ToolErrorKind = iota
	// ToolInvalidParams means a tool-specific required argument was
	// missing or malformed.
	ToolInvalidParams
	// ToolExecutionFailed means the tool body itself failed.
	ToolExecutionFailed
)

// ToolError is the structured failure a registry invocation returns in place
// of content. The dispatcher maps each kind onto a wire error code; tool
// bodies never surface unstructured failures past the registry boundary.
type ToolError struct {
	Kind    ToolErrorKind
	Message string
}

func (e *ToolError) Error() string { return e.Message }

func ok(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

func rpcErr(id json.RawMessage, code int, msg string, data any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: msg, Data: data}}
}

func errParse(err error) *Response {
	return rpcErr(nullID, CodeParseError, fmt.Sprintf("Parse error: %v", err), nil)
}

func errMethodNotFound(id json.RawMessage, method string) *Response {
	return rpcErr(id, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", method), nil)
}

func errInvalidParams(id json.RawMessage, msg string) *Response {
	return rpcErr(id, CodeInvalidParams, msg, nil)
}

func errToolExecution(id json.RawMessage, detail string) *Response {
	return rpcErr(id, CodeInternalError, fmt.Sprintf("Tool execution error: %s", detail), nil)
}
