package agentboot

import (
	"errors"

	"github.com/nwbvt/congressbot/llm"
)

type AgentBuilder struct {
	config AgentConfig
}

func NewAgentBuilder() *AgentBuilder {
	return &AgentBuilder{
		config: AgentConfig{
			Temperature: 1.0,
			MaxTokens:   DefaultMaxTokens,
			MaxTurns:    DefaultMaxTurns,
		},
	}
}

func (b *AgentBuilder) WithModel(client llm.LLMClient) *AgentBuilder {
	b.config.Model = client
	return b
}

func (b *AgentBuilder) WithSystemPrompt(prompt string) *AgentBuilder {
	b.config.SystemPrompt = prompt
	return b
}

func (b *AgentBuilder) AddTool(tool MCPTool) *AgentBuilder {
	b.config.Tools = append(b.config.Tools, tool)
	return b
}

func (b *AgentBuilder) AddTools(tools ...MCPTool) *AgentBuilder {
	b.config.Tools = append(b.config.Tools, tools...)
	return b
}

func (b *AgentBuilder) WithTemperature(temp float64) *AgentBuilder {
	b.config.Temperature = temp
	return b
}

func (b *AgentBuilder) WithMaxTokens(max int) *AgentBuilder {
	b.config.MaxTokens = max
	return b
}

func (b *AgentBuilder) WithMaxTurns(maxTurns int) *AgentBuilder {
	b.config.MaxTurns = maxTurns
	return b
}

func (b *AgentBuilder) WithReporter(reporter ProgressReporter) *AgentBuilder {
	b.config.Reporter = reporter
	return b
}

// Build validates the configuration and the tool set.
func (b *AgentBuilder) Build() (*Agent, error) {
	if b.config.Model == nil {
		return nil, errors.New("agent requires a model")
	}
	if b.config.MaxTurns <= 0 {
		b.config.MaxTurns = DefaultMaxTurns
	}
	if b.config.MaxTokens <= 0 {
		b.config.MaxTokens = DefaultMaxTokens
	}
	if b.config.Reporter == nil {
		b.config.Reporter = &NoOpProgressReporter{}
	}

	registry, err := NewToolRegistry(b.config.Tools...)
	if err != nil {
		return nil, err
	}
	return &Agent{config: b.config, registry: registry}, nil
}
