package mcp

import (
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
)

func intPtr(i int) *int { return &i }

// Builtins returns the fixed tool set this server advertises. Conformance
// tests match on the exact success-string formats below, so changing them
// breaks the wire contract.
func Builtins() []Tool {
	return []Tool{
		echoTool{},
		addTool{},
		getTimeTool{},
		websocketSearchTool{},
		websocketTimeTool{},
	}
}

// numberArg reads a numeric argument, defaulting to 0 when absent or not a
// number. JSON numbers decode as float64.
func numberArg(args map[string]any, key string) float64 {
	if v, isNum := args[key].(float64); isNum {
		return v
	}
	return 0
}

func stringArg(args map[string]any, key string) string {
	if v, isStr := args[key].(string); isStr {
		return v
	}
	return ""
}

type echoTool struct{}

func (echoTool) Descriptor() Descriptor {
	return Descriptor{
		Name:        "echo",
		Description: "Echo back the input text",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text": {
					Type:        "string",
					Description: "Text to echo back",
				},
			},
			Required: []string{"text"},
		},
	}
}

func (echoTool) Call(args map[string]any) ([]ContentBlock, *ToolError) {
	return []ContentBlock{TextContent("Echo: " + stringArg(args, "text"))}, nil
}

type addTool struct{}

func (addTool) Descriptor() Descriptor {
	return Descriptor{
		Name:        "add",
		Description: "Add two numbers together",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"a": {
					Type:        "number",
					Description: "First number",
				},
				"b": {
					Type:        "number",
					Description: "Second number",
				},
			},
			Required: []string{"a", "b"},
		},
	}
}

func (addTool) Call(args map[string]any) ([]ContentBlock, *ToolError) {
	sum := numberArg(args, "a") + numberArg(args, "b")
	// %v keeps integral sums free of a trailing ".0": 5.5 -> "5.5", 5 -> "5".
	return []ContentBlock{TextContent(fmt.Sprintf("Result: %v", sum))}, nil
}

type getTimeTool struct{}

func (getTimeTool) Descriptor() Descriptor {
	return Descriptor{
		Name:        "get_time",
		Description: "Get the current time",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}
}

func (getTimeTool) Call(args map[string]any) ([]ContentBlock, *ToolError) {
	now := time.Now().Format(time.RFC3339)
	return []ContentBlock{TextContent("Current time: " + now)}, nil
}

type websocketSearchTool struct{}

func (websocketSearchTool) Descriptor() Descriptor {
	return Descriptor{
		Name:        "websocket_search",
		Description: "Search for information via WebSocket MCP server",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": {
					Type:        "string",
					Description: "The search query",
					MinLength:   intPtr(1),
				},
			},
			Required: []string{"query"},
		},
	}
}

func (websocketSearchTool) Call(args map[string]any) ([]ContentBlock, *ToolError) {
	query := stringArg(args, "query")
	if query == "" {
		return nil, &ToolError{
			Kind:    ToolInvalidParams,
			Message: "Invalid parameters: 'query' is required for websocket_search",
		}
	}
	text := fmt.Sprintf("🔍 WEBSOCKET MCP SEARCH for '%s': Found comprehensive results via WebSocket connection. Server located relevant information about %s from distributed sources. [Response from WebSocket MCP Server]", query, query)
	return []ContentBlock{TextContent(text)}, nil
}

type websocketTimeTool struct{}

func (websocketTimeTool) Descriptor() Descriptor {
	return Descriptor{
		Name:        "websocket_time",
		Description: "Get current time from WebSocket server",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}
}

func (websocketTimeTool) Call(args map[string]any) ([]ContentBlock, *ToolError) {
	stamp := time.Now().Format("2006-01-02 15:04:05")
	return []ContentBlock{TextContent(fmt.Sprintf("⏰ WEBSOCKET MCP TIME: %s [Timestamp from WebSocket MCP Server]", stamp))}, nil
}
