package agentboot

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ollama/ollama/api"
)

// Args gives a handler typed access to validated tool arguments. Reading a
// name the tool does not declare records ErrUndeclaredParameter, which fails
// the dispatch.
type Args struct {
	tool       string
	properties map[string]api.ToolProperty
	values     map[string]any
	err        error
}

func newArgs(tool MCPTool, values map[string]any) *Args {
	return &Args{tool: tool.Name(), properties: tool.Function.Parameters.Properties, values: values}
}

// Err returns the first undeclared name read, if any.
func (a *Args) Err() error { return a.err }

func (a *Args) lookup(name string) (any, bool) {
	if _, ok := a.properties[name]; !ok {
		if a.err == nil {
			a.err = fmt.Errorf("%w: %s has no parameter %q", ErrUndeclaredParameter, a.tool, name)
		}
		return nil, false
	}
	v, ok := a.values[name]
	return v, ok && v != nil
}

func (a *Args) Has(name string) bool {
	_, ok := a.lookup(name)
	return ok
}

func (a *Args) String(name string) string {
	return a.StringOr(name, "")
}

func (a *Args) StringOr(name, def string) string {
	if v, ok := a.lookup(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func (a *Args) Int(name string) int {
	return a.IntOr(name, 0)
}

func (a *Args) IntOr(name string, def int) int {
	if v, ok := a.lookup(name); ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return def
}

func (a *Args) BoolOr(name string, def bool) bool {
	if v, ok := a.lookup(name); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func (a *Args) Object(name string) map[string]any {
	if v, ok := a.lookup(name); ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// normalizeArgs checks raw against the tool's schema and converts values to
// the Go types Args hands out: string, int, float64, bool, map[string]any, []any.
func normalizeArgs(tool MCPTool, raw api.ToolCallFunctionArguments) (map[string]any, error) {
	params := tool.Function.Parameters
	out := make(map[string]any, len(raw))

	for name, value := range raw {
		prop, ok := params.Properties[name]
		if !ok {
			return nil, fmt.Errorf("%w: unexpected parameter %q", ErrInvalidArguments, name)
		}
		if value == nil || isBlankObject(prop, value) {
			continue
		}
		converted, err := convert(prop, value)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %v", ErrInvalidArguments, name, err)
		}
		if len(prop.Enum) > 0 && !slices.ContainsFunc(prop.Enum, func(e any) bool { return fmt.Sprint(e) == fmt.Sprint(converted) }) {
			return nil, fmt.Errorf("%w: parameter %q: %v is not one of %v", ErrInvalidArguments, name, converted, prop.Enum)
		}
		out[name] = converted
	}

	for _, name := range params.Required {
		if _, ok := out[name]; !ok {
			return nil, fmt.Errorf("%w: missing required parameter %q", ErrInvalidArguments, name)
		}
	}
	return out, nil
}

// isBlankObject reports an object parameter sent as an empty string, which
// providers that declare objects as strings use for "not given".
func isBlankObject(prop api.ToolProperty, value any) bool {
	s, ok := value.(string)
	return ok && len(prop.Type) > 0 && prop.Type[0] == "object" && strings.TrimSpace(s) == ""
}

func convert(prop api.ToolProperty, value any) (any, error) {
	typ := "string"
	if len(prop.Type) > 0 {
		typ = prop.Type[0]
	}

	switch typ {
	case "string":
		if s, ok := value.(string); ok {
			return s, nil
		}
	case "integer":
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v == math.Trunc(v) {
				return int(v), nil
			}
		case json.Number:
			if n, err := strconv.Atoi(v.String()); err == nil {
				return n, nil
			}
		}
	case "number":
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case json.Number:
			return v.Float64()
		}
	case "boolean":
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case "object":
		switch v := value.(type) {
		case map[string]any:
			return v, nil
		case string:
			// some providers only accept scalar schemas and send objects as JSON text
			var m map[string]any
			if err := json.Unmarshal([]byte(v), &m); err == nil {
				return m, nil
			}
		}
	case "array":
		if s, ok := value.([]any); ok {
			return s, nil
		}
	default:
		return value, nil
	}
	return nil, fmt.Errorf("expected %s, got %T", typ, value)
}
