package agentboot

import (
	"context"
	"errors"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billTool(handler Handler) MCPTool {
	return NewMCPToolBuilder("get_bill", "Gets a bill").
		IntParam("congress", "the congress", true).
		EnumParam("billType", "the type of bill", []string{"hr", "s"}, true).
		IntParam("billNumber", "the number", false).
		BoolParam("current", "current", false).
		ObjectParam("params", "extra", false).
		WithHandler(handler).
		Build()
}

func echoArgs(ctx context.Context, args *Args) (any, error) {
	return map[string]any{
		"congress": args.Int("congress"),
		"billType": args.String("billType"),
		"number":   args.IntOr("billNumber", 1),
		"current":  args.BoolOr("current", true),
		"params":   args.Object("params"),
	}, nil
}

func TestNewToolRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewToolRegistry(billTool(echoArgs), billTool(echoArgs))
	assert.ErrorIs(t, err, ErrDuplicateTool)
}

func TestNewToolRegistryRejectsIncompleteTools(t *testing.T) {
	_, err := NewToolRegistry(NewMCPToolBuilder("", "nameless").WithHandler(echoArgs).Build())
	assert.Error(t, err)

	_, err = NewToolRegistry(NewMCPToolBuilder("no_handler", "x").Build())
	assert.Error(t, err)
}

func TestAPIToolsKeepsOrder(t *testing.T) {
	a := NewMCPToolBuilder("a", "a").WithHandler(echoArgs).Build()
	b := NewMCPToolBuilder("b", "b").WithHandler(echoArgs).Build()
	r, err := NewToolRegistry(b, a)
	require.NoError(t, err)

	tools := r.APITools()
	require.Len(t, tools, 2)
	assert.Equal(t, "b", tools[0].Function.Name)
	assert.Equal(t, "a", tools[1].Function.Name)
}

func TestDispatchNormalizesArguments(t *testing.T) {
	r, err := NewToolRegistry(billTool(echoArgs))
	require.NoError(t, err)

	result, err := r.Dispatch(context.Background(), "get_bill", api.ToolCallFunctionArguments{
		"congress": float64(119),
		"billType": "hr",
		"params":   `{"format":"json"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"congress": 119,
		"billType": "hr",
		"number":   1,
		"current":  true,
		"params":   map[string]any{"format": "json"},
	}, result)
}

func TestDispatchErrors(t *testing.T) {
	r, err := NewToolRegistry(billTool(echoArgs))
	require.NoError(t, err)

	tests := []struct {
		name string
		tool string
		args api.ToolCallFunctionArguments
		want error
	}{
		{"unknown tool", "delete_bill", api.ToolCallFunctionArguments{}, ErrUnknownTool},
		{"missing required", "get_bill", api.ToolCallFunctionArguments{"congress": 119}, ErrInvalidArguments},
		{"undeclared argument", "get_bill", api.ToolCallFunctionArguments{"congress": 119, "billType": "hr", "sponsor": "x"}, ErrInvalidArguments},
		{"wrong type", "get_bill", api.ToolCallFunctionArguments{"congress": "119th", "billType": "hr"}, ErrInvalidArguments},
		{"fractional integer", "get_bill", api.ToolCallFunctionArguments{"congress": 119.5, "billType": "hr"}, ErrInvalidArguments},
		{"outside enum", "get_bill", api.ToolCallFunctionArguments{"congress": 119, "billType": "xx"}, ErrInvalidArguments},
		{"bad object", "get_bill", api.ToolCallFunctionArguments{"congress": 119, "billType": "s", "params": "[1]"}, ErrInvalidArguments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Dispatch(context.Background(), tt.tool, tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDispatchUndeclaredRead(t *testing.T) {
	tool := billTool(func(ctx context.Context, args *Args) (any, error) {
		return args.String("bill_type"), nil
	})
	r, err := NewToolRegistry(tool)
	require.NoError(t, err)

	_, err = r.Dispatch(context.Background(), "get_bill", api.ToolCallFunctionArguments{"congress": 119, "billType": "hr"})
	assert.ErrorIs(t, err, ErrUndeclaredParameter)
}

func TestDispatchWrapsHandlerError(t *testing.T) {
	boom := errors.New("boom")
	r, err := NewToolRegistry(billTool(func(ctx context.Context, args *Args) (any, error) {
		return nil, boom
	}))
	require.NoError(t, err)

	_, err = r.Dispatch(context.Background(), "get_bill", api.ToolCallFunctionArguments{"congress": 119, "billType": "hr"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrUnknownTool))
}

func TestDispatchBlankObjectIsAbsent(t *testing.T) {
	var hasParams bool
	tool := NewMCPToolBuilder("call_endpoint", "Calls an endpoint").
		StringParam("endpoint", "the endpoint", true).
		ObjectParam("params", "query parameters", false).
		WithHandler(func(ctx context.Context, args *Args) (any, error) {
			hasParams = args.Has("params")
			return args.String("endpoint"), nil
		}).
		Build()
	r, err := NewToolRegistry(tool)
	require.NoError(t, err)

	for _, blank := range []string{"", "  "} {
		result, err := r.Dispatch(context.Background(), "call_endpoint", api.ToolCallFunctionArguments{"endpoint": "bill", "params": blank})
		require.NoError(t, err)
		assert.Equal(t, "bill", result)
		assert.False(t, hasParams)
	}

	required := NewMCPToolBuilder("needs_params", "x").
		ObjectParam("params", "query parameters", true).
		WithHandler(echoArgs).
		Build()
	r, err = NewToolRegistry(required)
	require.NoError(t, err)
	_, err = r.Dispatch(context.Background(), "needs_params", api.ToolCallFunctionArguments{"params": ""})
	assert.ErrorIs(t, err, ErrInvalidArguments)
}
