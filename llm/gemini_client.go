package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ollama/ollama/api"
)

const (
	DefaultGeminiModel = "gemini-2.0-flash"
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
)

type GeminiClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
		baseURL:    geminiBaseURL,
		model:      model,
	}
}

func (c *GeminiClient) GetModel() string {
	return c.model
}

func (c *GeminiClient) GenerateContent(ctx context.Context, messages []Message, opts ...LLMOption) (Response, error) {
	settings := applyOptions(c.model, opts)

	request := geminiRequest{
		Contents: toGeminiContents(messages),
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     settings.temperature,
			MaxOutputTokens: settings.maxTokens,
		},
	}
	if settings.system != "" {
		request.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: settings.system}}}
	}
	if len(settings.tools) > 0 {
		request.Tools = []geminiTool{{FunctionDeclarations: toGeminiDeclarations(settings.tools)}}
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, settings.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

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

	var response geminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	return fromGeminiParts(response.Candidates[0].Content.Parts), nil
}

// fromGeminiParts returns the first function call if the candidate has one,
// otherwise the concatenated text.
func fromGeminiParts(parts []geminiPart) Response {
	var text strings.Builder
	for _, p := range parts {
		if p.FunctionCall != nil {
			args := p.FunctionCall.Args
			if args == nil {
				args = api.ToolCallFunctionArguments{}
			}
			return ToolCallResponse{Call: ToolCallPart{
				ID:        p.FunctionCall.ID,
				Name:      p.FunctionCall.Name,
				Arguments: args,
			}}
		}
		text.WriteString(p.Text)
	}
	return TextResponse{Text: text.String()}
}

func toGeminiContents(messages []Message) []geminiContent {
	contents := make([]geminiContent, 0, len(messages))
	for _, m := range messages {
		content := geminiContent{Role: string(m.Role)}
		for _, part := range m.Parts {
			switch p := part.(type) {
			case TextPart:
				content.Parts = append(content.Parts, geminiPart{Text: p.Text})
			case ToolCallPart:
				content.Parts = append(content.Parts, geminiPart{FunctionCall: &geminiFunctionCall{
					ID:   p.ID,
					Name: p.Name,
					Args: p.Arguments,
				}})
			case ToolResultPart:
				content.Parts = append(content.Parts, geminiPart{FunctionResponse: &geminiFunctionResponse{
					ID:       p.ID,
					Name:     p.Name,
					Response: map[string]any{"result": p.Result},
				}})
			}
		}
		contents = append(contents, content)
	}
	return contents
}

// toGeminiDeclarations converts Ollama tools to Gemini function declarations.
func toGeminiDeclarations(tools []api.Tool) []geminiFunctionDeclaration {
	decls := make([]geminiFunctionDeclaration, len(tools))
	for i, tool := range tools {
		decl := geminiFunctionDeclaration{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
		}
		if len(tool.Function.Parameters.Properties) > 0 {
			params := &geminiSchema{
				Type:       "OBJECT",
				Properties: make(map[string]*geminiSchema, len(tool.Function.Parameters.Properties)),
				Required:   tool.Function.Parameters.Required,
			}
			for name, prop := range tool.Function.Parameters.Properties {
				params.Properties[name] = toGeminiSchema(prop)
			}
			decl.Parameters = params
		}
		decls[i] = decl
	}
	return decls
}

func toGeminiSchema(prop api.ToolProperty) *geminiSchema {
	typ := "string"
	if len(prop.Type) > 0 {
		typ = prop.Type[0]
	}

	s := &geminiSchema{Type: strings.ToUpper(typ), Description: prop.Description}
	// Gemini rejects OBJECT schemas without properties, free-form objects travel as JSON text.
	if typ == "object" {
		s.Type = "STRING"
		s.Description = strings.TrimSpace(prop.Description + " (JSON object)")
	}
	for _, e := range prop.Enum {
		s.Enum = append(s.Enum, fmt.Sprint(e))
	}
	if len(s.Enum) > 0 {
		s.Format = "enum"
	}
	return s
}

// Gemini API types
type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	Tools             []geminiTool            `json:"tools,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text             string                  `json:"text,omitempty"`
	FunctionCall     *geminiFunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResponse `json:"functionResponse,omitempty"`
}

type geminiFunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

type geminiFunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFunctionDeclaration `json:"functionDeclarations"`
}

type geminiFunctionDeclaration struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Parameters  *geminiSchema `json:"parameters,omitempty"`
}

type geminiSchema struct {
	Type        string                   `json:"type"`
	Format      string                   `json:"format,omitempty"`
	Description string                   `json:"description,omitempty"`
	Enum        []string                 `json:"enum,omitempty"`
	Properties  map[string]*geminiSchema `json:"properties,omitempty"`
	Required    []string                 `json:"required,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}
