package agentboot

import (
	"context"

	"github.com/nwbvt/congressbot/llm"
	"github.com/ollama/ollama/api"
)

const (
	DefaultMaxTurns  = 16
	DefaultMaxTokens = 4096
)

// AgentConfig holds configuration for the agent
type AgentConfig struct {
	Model        llm.LLMClient
	SystemPrompt string
	Tools        []MCPTool
	Temperature  float64
	MaxTokens    int
	// MaxTurns bounds the model calls made while answering one user message.
	MaxTurns int
	Reporter ProgressReporter
}

// Agent answers user messages by mediating between a model and a tool registry.
type Agent struct {
	config   AgentConfig
	registry *ToolRegistry
}

// Handler runs a tool. Arguments have already been validated against the
// tool's schema and must be read through args.
type Handler func(ctx context.Context, args *Args) (any, error)

// MCPTool wraps an api.Tool and provides a handler for execution
type MCPTool struct {
	api.Tool
	Handler Handler `json:"-"`
}

func (t MCPTool) Name() string {
	return t.Function.Name
}
