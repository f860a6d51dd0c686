package llm

import (
	"context"

	"github.com/ollama/ollama/api"
)

// LLMClient sends a transcript to a model and returns exactly one response:
// either a text answer or a single tool call.
type LLMClient interface {
	GenerateContent(
		ctx context.Context,
		messages []Message,
		opts ...LLMOption,
	) (Response, error)

	GetModel() string
}

type LLMSettings struct {
	model       string     // model name
	temperature float64    // randomness (0.0 to 2.0)
	maxTokens   int        // maximum tokens to generate
	system      string     // system prompt
	tools       []api.Tool // tools to use for tool calling
}

type LLMOption func(*LLMSettings)

func defaultSettings(model string) LLMSettings {
	return LLMSettings{
		model:       model,
		temperature: 1.0,
		maxTokens:   4096,
	}
}

func applyOptions(model string, opts []LLMOption) LLMSettings {
	settings := defaultSettings(model)
	for _, opt := range opts {
		opt(&settings)
	}
	return settings
}

// Common options for all LLM providers
func WithTemperature(temp float64) LLMOption {
	return func(s *LLMSettings) { s.temperature = temp }
}

func WithMaxTokens(tokens int) LLMOption {
	return func(s *LLMSettings) { s.maxTokens = tokens }
}

func WithSystemPrompt(prompt string) LLMOption {
	return func(s *LLMSettings) { s.system = prompt }
}

func WithTools(tools []api.Tool) LLMOption {
	return func(s *LLMSettings) { s.tools = tools }
}
