package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

type stubCaller struct {
	lastName string
	lastArgs map[string]interface{}
	result   *mcp.CallToolResult
	err      error
}

func (s *stubCaller) CallTool(_ context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	s.lastName = name
	s.lastArgs = args
	return s.result, s.err
}

func TestToolAdapter_Execute_TextResult(t *testing.T) {
	tool := mcp.Tool{
		Name:        "echo",
		Description: "echoes its input",
		InputSchema: mcp.ToolInputSchema{
			Type:     "object",
			Required: []string{"input"},
		},
	}
	caller := &stubCaller{
		result: &mcp.CallToolResult{
			Content: []mcp.Content{mcp.TextContent{Type: "text", Text: "ok"}},
		},
	}

	adapter, err := NewToolAdapter(tool, caller)
	if err != nil {
		t.Fatalf("NewToolAdapter error: %v", err)
	}

	result, err := adapter.Execute(context.Background(), map[string]any{"input": "hello"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !result.Success || result.Result != "ok" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if caller.lastName != "echo" {
		t.Fatalf("expected tool name 'echo', got %q", caller.lastName)
	}
	if caller.lastArgs["input"] != "hello" {
		t.Fatalf("expected input arg 'hello', got %v", caller.lastArgs["input"])
	}
}

func TestToolAdapter_Execute_StructuredResult(t *testing.T) {
	tool := mcp.Tool{Name: "lookup"}
	caller := &stubCaller{
		result: &mcp.CallToolResult{
			StructuredContent: map[string]any{"hits": float64(3)},
		},
	}

	adapter, err := NewToolAdapter(tool, caller)
	if err != nil {
		t.Fatalf("NewToolAdapter error: %v", err)
	}

	result, err := adapter.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	structured, ok := result.Result.(map[string]any)
	if !ok || structured["hits"] != float64(3) {
		t.Fatalf("unexpected structured result: %+v", result.Result)
	}
}

func TestToolAdapter_Execute_ServerError(t *testing.T) {
	tool := mcp.Tool{Name: "flaky"}
	caller := &stubCaller{
		result: &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{mcp.TextContent{Type: "text", Text: "backend down"}},
		},
	}

	adapter, err := NewToolAdapter(tool, caller)
	if err != nil {
		t.Fatalf("NewToolAdapter error: %v", err)
	}

	result, err := adapter.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.Success {
		t.Fatal("expected unsuccessful result")
	}
	if result.Error != "backend down" {
		t.Fatalf("error = %q", result.Error)
	}
}

func TestToolAdapter_Execute_TransportError(t *testing.T) {
	adapter, err := NewToolAdapter(mcp.Tool{Name: "echo"}, &stubCaller{err: errors.New("pipe closed")})
	if err != nil {
		t.Fatalf("NewToolAdapter error: %v", err)
	}

	if _, err := adapter.Execute(context.Background(), nil); err == nil {
		t.Fatal("expected transport error to propagate")
	}
}

func TestToolAdapter_Execute_MissingRequired(t *testing.T) {
	tool := mcp.Tool{
		Name: "fetch",
		InputSchema: mcp.ToolInputSchema{
			Type:     "object",
			Required: []string{"url"},
		},
	}
	caller := &stubCaller{}

	adapter, err := NewToolAdapter(tool, caller)
	if err != nil {
		t.Fatalf("NewToolAdapter error: %v", err)
	}

	result, err := adapter.Execute(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.Success {
		t.Fatal("expected failure for missing required arg")
	}
	if caller.lastName != "" {
		t.Fatal("server must not be called with incomplete args")
	}
}

func TestToolAdapter_Parameters(t *testing.T) {
	tool := mcp.Tool{
		Name: "search",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{"type": "string"},
			},
			Required: []string{"query"},
		},
	}

	adapter, err := NewToolAdapter(tool, &stubCaller{})
	if err != nil {
		t.Fatalf("NewToolAdapter error: %v", err)
	}

	params := adapter.Parameters()
	if params["type"] != "object" {
		t.Errorf("type = %v", params["type"])
	}
	props, ok := params["properties"].(map[string]any)
	if !ok || props["query"] == nil {
		t.Errorf("properties = %v", params["properties"])
	}
}

func TestNewToolAdapterValidation(t *testing.T) {
	if _, err := NewToolAdapter(mcp.Tool{}, &stubCaller{}); err == nil {
		t.Error("expected error for missing tool name")
	}
	if _, err := NewToolAdapter(mcp.Tool{Name: "x"}, nil); err == nil {
		t.Error("expected error for nil caller")
	}
}
