package mcp

import "fmt"

// Tool is the executable behavior behind one catalog entry. Call receives the
// decoded arguments object (nil when the client sent none) and returns either
// content blocks or a structured failure, never both.
type Tool interface {
	Descriptor() Descriptor
	Call(args map[string]any) ([]ContentBlock, *ToolError)
}

// Registry is an immutable, ordered tool catalog built once at startup and
// shared read-only across concurrent sessions.
type Registry struct {
	order []Descriptor
	tools map[string]Tool
}

// NewRegistry builds a registry from the given tools, preserving their order.
// Tool names must be unique.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		order: make([]Descriptor, 0, len(tools)),
		tools: make(map[string]Tool, len(tools)),
	}
	for _, t := range tools {
		d := t.Descriptor()
		if d.Name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if _, exists := r.tools[d.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name: %s", d.Name)
		}
		r.order = append(r.order, d)
		r.tools[d.Name] = t
	}
	return r, nil
}

// List returns the catalog in registration order. The returned slice is a
// copy; call history never changes the catalog.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Invoke runs the named tool. Unknown names fail with ToolNotFound; a panic
// inside a tool body is caught here and converted to ToolExecutionFailed
// carrying the panic text, so callers only ever see structured failures.
func (r *Registry) Invoke(name string, args map[string]any) ([]ContentBlock, *ToolError) {
	tool, exists := r.tools[name]
	if !exists {
		return nil, &ToolError{Kind: ToolNotFound, Message: fmt.Sprintf("Unknown tool: %s", name)}
	}
	return safeCall(tool, args)
}

func safeCall(tool Tool, args map[string]any) (blocks []ContentBlock, terr *ToolError) {
	defer func() {
		if rec := recover(); rec != nil {
			blocks = nil
			terr = &ToolError{Kind: ToolExecutionFailed, Message: fmt.Sprint(rec)}
		}
	}()
	return tool.Call(args)
}
