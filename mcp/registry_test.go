package mcp

import (
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
)

// panicTool fails by panicking, exercising the registry's recovery boundary.
type panicTool struct{}

func (panicTool) Descriptor() Descriptor {
	return Descriptor{
		Name:        "panic_tool",
		Description: "Always panics",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}
}

func (panicTool) Call(args map[string]any) ([]ContentBlock, *ToolError) {
	panic("boom")
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	if _, err := NewRegistry(echoTool{}, echoTool{}); err == nil {
		t.Fatalf("expected error for duplicate tool name")
	}
}

func TestRegistryListIsACopy(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(Builtins()...)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	first := registry.List()
	first[0].Name = "mutated"

	second := registry.List()
	if second[0].Name != "echo" {
		t.Fatalf("catalog mutated through List result: got %q", second[0].Name)
	}
}

func TestRegistryInvokeUnknown(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(Builtins()...)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	blocks, terr := registry.Invoke("nope", nil)
	if blocks != nil {
		t.Fatalf("expected no content, got %v", blocks)
	}
	if terr == nil || terr.Kind != ToolNotFound {
		t.Fatalf("expected ToolNotFound, got %+v", terr)
	}
	if terr.Message != "Unknown tool: nope" {
		t.Fatalf("unexpected message: %q", terr.Message)
	}
}

func TestRegistryRecoversPanics(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(panicTool{})
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	blocks, terr := registry.Invoke("panic_tool", nil)
	if blocks != nil {
		t.Fatalf("expected no content, got %v", blocks)
	}
	if terr == nil || terr.Kind != ToolExecutionFailed {
		t.Fatalf("expected ToolExecutionFailed, got %+v", terr)
	}
	if !strings.Contains(terr.Message, "boom") {
		t.Fatalf("panic text lost: %q", terr.Message)
	}
}
