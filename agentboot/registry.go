package agentboot

import (
	"context"
	"errors"
	"fmt"

	"github.com/ollama/ollama/api"
)

var (
	ErrUnknownTool         = errors.New("unknown tool")
	ErrInvalidArguments    = errors.New("invalid tool arguments")
	ErrUndeclaredParameter = errors.New("undeclared tool parameter")
	ErrDuplicateTool       = errors.New("duplicate tool name")
	ErrToolLoopExceeded    = errors.New("tool loop exceeded")
)

// ToolRegistry is the fixed set of tools offered to the model.
type ToolRegistry struct {
	tools  []MCPTool
	byName map[string]int
}

func NewToolRegistry(tools ...MCPTool) (*ToolRegistry, error) {
	r := &ToolRegistry{byName: make(map[string]int, len(tools))}
	for _, tool := range tools {
		name := tool.Name()
		if name == "" {
			return nil, errors.New("tool without a name")
		}
		if tool.Handler == nil {
			return nil, fmt.Errorf("tool %s has no handler", name)
		}
		if _, ok := r.byName[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, name)
		}
		for _, req := range tool.Function.Parameters.Required {
			if _, ok := tool.Function.Parameters.Properties[req]; !ok {
				return nil, fmt.Errorf("tool %s requires undeclared parameter %q", name, req)
			}
		}
		r.byName[name] = len(r.tools)
		r.tools = append(r.tools, tool)
	}
	return r, nil
}

// APITools returns the tool schemas in registration order.
func (r *ToolRegistry) APITools() []api.Tool {
	return toAPITools(r.tools)
}

func (r *ToolRegistry) Lookup(name string) (MCPTool, bool) {
	i, ok := r.byName[name]
	if !ok {
		return MCPTool{}, false
	}
	return r.tools[i], true
}

// Dispatch validates raw against the named tool's schema and runs it.
func (r *ToolRegistry) Dispatch(ctx context.Context, name string, raw api.ToolCallFunctionArguments) (any, error) {
	tool, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	values, err := normalizeArgs(tool, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	args := newArgs(tool, values)
	result, err := tool.Handler(ctx, args)
	if args.Err() != nil {
		return nil, args.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("tool %s failed: %w", name, err)
	}
	return result, nil
}
