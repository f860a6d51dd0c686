package agentboot

import (
	"slices"

	"github.com/ollama/ollama/api"
)

// MCPTool builder to define MCP tool schema.
type MCPToolBuilder struct {
	tool MCPTool
}

func NewMCPToolBuilder(name, description string) *MCPToolBuilder {
	b := &MCPToolBuilder{
		tool: MCPTool{
			Tool: api.Tool{
				Type: "function",
				Function: api.ToolFunction{
					Name:        name,
					Description: description,
				},
			},
		},
	}

	// Initialize parameters object
	b.tool.Function.Parameters.Type = "object"
	b.tool.Function.Parameters.Properties = make(map[string]api.ToolProperty, 8)
	// Required slice stays nil until first add
	return b
}

func (b *MCPToolBuilder) StringParam(name, desc string, required bool) *MCPToolBuilder {
	return b.param(name, "string", desc, required)
}

func (b *MCPToolBuilder) IntParam(name, desc string, required bool) *MCPToolBuilder {
	return b.param(name, "integer", desc, required)
}

func (b *MCPToolBuilder) BoolParam(name, desc string, required bool) *MCPToolBuilder {
	return b.param(name, "boolean", desc, required)
}

// ObjectParam declares a free-form object, such as query parameters.
func (b *MCPToolBuilder) ObjectParam(name, desc string, required bool) *MCPToolBuilder {
	return b.param(name, "object", desc, required)
}

// EnumParam declares a string restricted to values.
func (b *MCPToolBuilder) EnumParam(name, desc string, values []string, required bool) *MCPToolBuilder {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	prop := api.ToolProperty{
		Type:        api.PropertyType{"string"},
		Description: desc,
		Enum:        enum,
	}

	b.setProp(name, prop, required)
	return b
}

func (b *MCPToolBuilder) WithHandler(fn Handler) *MCPToolBuilder {
	b.tool.Handler = fn
	return b
}

func (b *MCPToolBuilder) Build() MCPTool {
	return b.tool
}

func (b *MCPToolBuilder) param(name, typ, desc string, required bool) *MCPToolBuilder {
	b.setProp(name, api.ToolProperty{Type: api.PropertyType{typ}, Description: desc}, required)
	return b
}

func (b *MCPToolBuilder) setProp(name string, p api.ToolProperty, required bool) {
	props := b.tool.Function.Parameters.Properties
	props[name] = p
	if required {
		req := b.tool.Function.Parameters.Required
		if !slices.Contains(req, name) {
			b.tool.Function.Parameters.Required = append(req, name)
		}
	}
}
