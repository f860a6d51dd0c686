package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/SaiNageswarS/go-collection-boot/linq"
)

const DefaultGeminiModel = "text-embedding-004"

type GeminiEmbedder struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiEmbedder(apiKey, model string) *GeminiEmbedder {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiEmbedder{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
		httpClient: &http.Client{},
	}
}

func (g *GeminiEmbedder) Embed(ctx context.Context, task Task, inputs []string) <-chan async.Result[[][]float32] {
	return async.Go(func() ([][]float32, error) {
		if len(inputs) == 0 {
			return [][]float32{}, nil
		}

		model := "models/" + g.model
		requests, err := linq.Pipe2(
			linq.FromSlice(ctx, inputs),
			linq.Select(func(text string) embedContentRequest {
				return embedContentRequest{
					Model:    model,
					Content:  contentPayload{Parts: []textPart{{Text: text}}},
					TaskType: string(task),
				}
			}),
			linq.ToSlice[embedContentRequest](),
		)
		if err != nil {
			return nil, err
		}

		jsonData, err := json.Marshal(batchEmbedRequest{Requests: requests})
		if err != nil {
			return nil, fmt.Errorf("error marshaling request: %w", err)
		}

		url := fmt.Sprintf("%s/%s:batchEmbedContents", g.baseURL, model)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("error creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", g.apiKey)

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("error making request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("error reading response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		var response batchEmbedResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("error unmarshaling response: %w", err)
		}
		if len(response.Embeddings) != len(inputs) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(response.Embeddings))
		}

		return linq.Pipe2(
			linq.FromSlice(ctx, response.Embeddings),
			linq.Select(func(e embeddingValues) []float32 { return e.Values }),
			linq.ToSlice[[]float32](),
		)
	})
}

type batchEmbedRequest struct {
	Requests []embedContentRequest `json:"requests"`
}

type embedContentRequest struct {
	Model    string         `json:"model"`
	Content  contentPayload `json:"content"`
	TaskType string         `json:"taskType"`
}

type contentPayload struct {
	Parts []textPart `json:"parts"`
}

type textPart struct {
	Text string `json:"text"`
}

type batchEmbedResponse struct {
	Embeddings []embeddingValues `json:"embeddings"`
}

type embeddingValues struct {
	Values []float32 `json:"values"`
}
