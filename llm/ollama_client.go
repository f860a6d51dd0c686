package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ollama/ollama/api"
)

type OllamaClient struct {
	client *api.Client
	model  string
}

func NewOllamaClient(client *api.Client, model string) *OllamaClient {
	return &OllamaClient{client: client, model: model}
}

func (c *OllamaClient) GetModel() string {
	return c.model
}

func (c *OllamaClient) GenerateContent(ctx context.Context, messages []Message, opts ...LLMOption) (Response, error) {
	settings := applyOptions(c.model, opts)

	stream := false
	req := &api.ChatRequest{
		Model:    settings.model,
		Messages: toOllamaMessages(settings.system, messages),
		Stream:   &stream,
		Tools:    settings.tools,
		Options: map[string]any{
			"temperature": settings.temperature,
			"num_predict": settings.maxTokens,
		},
	}

	var final api.ChatResponse
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		final.Message.Content += resp.Message.Content
		final.Message.ToolCalls = append(final.Message.ToolCalls, resp.Message.ToolCalls...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat failed: %w", err)
	}

	if len(final.Message.ToolCalls) > 0 {
		fn := final.Message.ToolCalls[0].Function
		args := fn.Arguments
		if args == nil {
			args = api.ToolCallFunctionArguments{}
		}
		return ToolCallResponse{Call: ToolCallPart{Name: fn.Name, Arguments: args}}, nil
	}

	return TextResponse{Text: final.Message.Content}, nil
}

func toOllamaMessages(system string, messages []Message) []api.Message {
	out := make([]api.Message, 0, len(messages)+1)
	if system != "" {
		out = append(out, api.Message{Role: "system", Content: system})
	}

	for _, m := range messages {
		role := "user"
		if m.Role == RoleModel {
			role = "assistant"
		}

		msg := api.Message{Role: role}
		for _, part := range m.Parts {
			switch p := part.(type) {
			case TextPart:
				msg.Content += p.Text
			case ToolCallPart:
				msg.ToolCalls = append(msg.ToolCalls, api.ToolCall{
					Function: api.ToolCallFunction{Name: p.Name, Arguments: p.Arguments},
				})
			case ToolResultPart:
				content, _ := json.Marshal(map[string]any{"result": p.Result})
				out = append(out, api.Message{Role: "tool", Content: string(content)})
			}
		}
		if msg.Content != "" || len(msg.ToolCalls) > 0 {
			out = append(out, msg)
		}
	}
	return out
}
