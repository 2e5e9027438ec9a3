package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/BatAIInc/bat-ai-core/pkg/core"
)

// ToolCaller abstracts MCP tool execution for adapters.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error)
}

// ToolAdapter exposes an MCP tool as a core.Tool so agents can select it
// during tool selection.
type ToolAdapter struct {
	tool   mcp.Tool
	caller ToolCaller
}

// NewToolAdapter builds a core.Tool backed by an MCP tool definition and
// caller.
func NewToolAdapter(tool mcp.Tool, caller ToolCaller) (*ToolAdapter, error) {
	if tool.Name == "" {
		return nil, errors.New("mcp tool name is required")
	}
	if caller == nil {
		return nil, errors.New("tool caller is required")
	}
	return &ToolAdapter{tool: tool, caller: caller}, nil
}

// Name returns the MCP tool name.
func (t *ToolAdapter) Name() string {
	return t.tool.Name
}

// Description returns the MCP tool description.
func (t *ToolAdapter) Description() string {
	return t.tool.Description
}

// Parameters returns the tool's input schema as a JSON-Schema-shaped map.
func (t *ToolAdapter) Parameters() map[string]any {
	schema := map[string]any{"type": "object"}
	if t.tool.InputSchema.Type != "" {
		schema["type"] = t.tool.InputSchema.Type
	}
	if len(t.tool.InputSchema.Properties) > 0 {
		schema["properties"] = t.tool.InputSchema.Properties
	}
	if len(t.tool.InputSchema.Required) > 0 {
		schema["required"] = t.tool.InputSchema.Required
	}
	return schema
}

// Execute invokes the MCP tool. Server-reported tool errors come back as
// an unsuccessful ToolResult; transport failures are returned as errors.
func (t *ToolAdapter) Execute(ctx context.Context, input map[string]any) (*core.ToolResult, error) {
	if input == nil {
		input = map[string]any{}
	}
	if missing := t.missingRequired(input); missing != "" {
		return &core.ToolResult{
			Success: false,
			Error:   fmt.Sprintf("missing required field %q", missing),
		}, nil
	}

	result, err := t.caller.CallTool(ctx, t.tool.Name, input)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.New("mcp tool result is nil")
	}

	if result.IsError {
		return &core.ToolResult{
			Success: false,
			Error:   extractTextContent(result.Content),
		}, nil
	}

	out := &core.ToolResult{Success: true}
	switch {
	case result.StructuredContent != nil:
		out.Result = result.StructuredContent
	default:
		out.Result = extractTextContent(result.Content)
	}
	return out, nil
}

func (t *ToolAdapter) missingRequired(args map[string]any) string {
	schema := t.tool.InputSchema
	if schema.Type != "" && schema.Type != "object" {
		return ""
	}
	for _, key := range schema.Required {
		if _, ok := args[key]; !ok {
			return key
		}
	}
	return ""
}

func extractTextContent(items []mcp.Content) string {
	var parts []string
	for _, item := range items {
		switch content := item.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		}
	}
	return strings.Join(parts, "\n")
}

var _ core.Tool = (*ToolAdapter)(nil)
