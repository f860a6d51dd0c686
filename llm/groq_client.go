package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ollama/ollama/api"
)

type GroqClient struct {
	apiKey     string
	httpClient *http.Client
	url        string
	model      string
}

func NewGroqClient(apiKey, model string) *GroqClient {
	return &GroqClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
		url:        "https://api.groq.com/openai/v1/chat/completions",
		model:      model,
	}
}

func (c *GroqClient) GetModel() string {
	return c.model
}

func (c *GroqClient) GenerateContent(ctx context.Context, messages []Message, opts ...LLMOption) (Response, error) {
	settings := applyOptions(c.model, opts)

	request := groqRequest{
		Model:       settings.model,
		Messages:    toGroqMessages(messages),
		Temperature: settings.temperature,
		MaxTokens:   settings.maxTokens,
		Tools:       convertToolsToGroqFormat(settings.tools),
	}
	if len(request.Tools) > 0 {
		request.ToolChoice = "auto"
	}

	// Groq uses a system message in the messages array
	if settings.system != "" {
		systemMsg := groqMessage{
			Role:    "system",
			Content: settings.system,
		}
		request.Messages = append([]groqMessage{systemMsg}, request.Messages...)
	}

	return c.makeRequest(ctx, request)
}

func (c *GroqClient) makeRequest(ctx context.Context, request groqRequest) (Response, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response groqResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := response.Choices[0]

	// Only the first tool call of a response is honoured
	if len(choice.Message.ToolCalls) > 0 {
		tc := choice.Message.ToolCalls[0]
		args := api.ToolCallFunctionArguments{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("error parsing tool call arguments: %w", err)
			}
		}
		return ToolCallResponse{Call: ToolCallPart{ID: tc.ID, Name: tc.Function.Name, Arguments: args}}, nil
	}

	return TextResponse{Text: choice.Message.Content}, nil
}

// toGroqMessages maps transcript turns to OpenAI-style chat messages.
// Tool results become "tool" messages keyed by the originating call id.
func toGroqMessages(messages []Message) []groqMessage {
	out := make([]groqMessage, 0, len(messages))
	for i, m := range messages {
		role := "user"
		if m.Role == RoleModel {
			role = "assistant"
		}

		msg := groqMessage{Role: role}
		for _, part := range m.Parts {
			switch p := part.(type) {
			case TextPart:
				msg.Content += p.Text
			case ToolCallPart:
				args, _ := json.Marshal(p.Arguments)
				msg.ToolCalls = append(msg.ToolCalls, groqToolCall{
					ID:       groqCallID(p.ID, i),
					Type:     "function",
					Function: groqToolCallFunction{Name: p.Name, Arguments: string(args)},
				})
			case ToolResultPart:
				content, _ := json.Marshal(map[string]any{"result": p.Result})
				// the call lives in the previous turn
				out = append(out, groqMessage{Role: "tool", ToolCallID: groqCallID(p.ID, i-1), Content: string(content)})
			}
		}
		if msg.Content != "" || len(msg.ToolCalls) > 0 {
			out = append(out, msg)
		}
	}
	return out
}

func groqCallID(id string, turn int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("call_%d", turn)
}

// convertToolsToGroqFormat converts Ollama tools to Groq format
func convertToolsToGroqFormat(tools []api.Tool) []groqTool {
	if len(tools) == 0 {
		return nil
	}

	groqTools := make([]groqTool, len(tools))
	for i, tool := range tools {
		groqTools[i] = groqTool{
			Type: "function",
			Function: groqFunction{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		}
	}
	return groqTools
}

// Groq API types
type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_completion_tokens,omitempty"`
	Tools       []groqTool    `json:"tools,omitempty"`
	ToolChoice  string        `json:"tool_choice,omitempty"`
}

type groqTool struct {
	Type     string       `json:"type"`
	Function groqFunction `json:"function"`
}

type groqFunction struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  interface{} `json:"parameters"`
}

type groqResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []groqChoice `json:"choices"`
}

type groqChoice struct {
	Index        int         `json:"index"`
	Message      groqMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type groqMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []groqToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type groqToolCall struct {
	ID       string               `json:"id"`
	Type     string               `json:"type"`
	Function groqToolCallFunction `json:"function"`
}

type groqToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}
