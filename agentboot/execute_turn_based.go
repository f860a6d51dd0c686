package agentboot

import (
	"context"
	"fmt"

	"github.com/nwbvt/congressbot/llm"
	"github.com/nwbvt/congressbot/memory"
)

// Ask appends text to conv and runs model calls until the model answers in
// text. Each tool call is executed and recorded with its result before the
// model is called again. At most MaxTurns model calls are made.
func (a *Agent) Ask(ctx context.Context, conv *memory.Conversation, text string) (string, error) {
	conv.AddUserMessage(text)

	opts := []llm.LLMOption{
		llm.WithSystemPrompt(a.config.SystemPrompt),
		llm.WithTools(a.registry.APITools()),
		llm.WithTemperature(a.config.Temperature),
		llm.WithMaxTokens(a.config.MaxTokens),
	}

	for turn := 0; turn < a.config.MaxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		resp, err := a.config.Model.GenerateContent(ctx, conv.Messages, opts...)
		if err != nil {
			return "", fmt.Errorf("model %s failed: %w", a.config.Model.GetModel(), err)
		}

		switch r := resp.(type) {
		case llm.TextResponse:
			conv.AddModelMessage(r.Text)
			return r.Text, nil
		case llm.ToolCallResponse:
			result, err := a.RunTool(ctx, r.Call)
			if err != nil {
				return "", err
			}
			conv.AddToolExchange(r.Call, result)
		default:
			return "", fmt.Errorf("unexpected model response %T", resp)
		}
	}

	return "", fmt.Errorf("%w: no answer after %d model calls", ErrToolLoopExceeded, a.config.MaxTurns)
}
