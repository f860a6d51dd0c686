package embed

import (
	"context"
	"errors"
	"fmt"

	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/SaiNageswarS/go-collection-boot/linq"
	"github.com/ollama/ollama/api"
)

// Task prefixes understood by nomic-embed-text and similar asymmetric models.
var ollamaTaskPrefix = map[Task]string{
	TaskDocument: "search_document: ",
	TaskQuery:    "search_query: ",
}

type OllamaEmbedder struct {
	client *api.Client
	model  string
}

func NewOllamaEmbedder(client *api.Client, model string) *OllamaEmbedder {
	return &OllamaEmbedder{client: client, model: model}
}

func (o *OllamaEmbedder) Embed(ctx context.Context, task Task, inputs []string) <-chan async.Result[[][]float32] {
	return async.Go(func() ([][]float32, error) {
		if len(inputs) == 0 {
			return [][]float32{}, nil
		}

		prefix := ollamaTaskPrefix[task]
		prefixed, err := linq.Pipe2(
			linq.FromSlice(ctx, inputs),
			linq.Select(func(s string) string { return prefix + s }),
			linq.ToSlice[string](),
		)
		if err != nil {
			return nil, err
		}

		resp, err := o.client.Embed(ctx, &api.EmbedRequest{
			Model: o.model,
			Input: prefixed,
		})
		if err != nil {
			var statusErr api.StatusError
			if errors.As(err, &statusErr) {
				return nil, &StatusError{StatusCode: statusErr.StatusCode, Body: statusErr.ErrorMessage}
			}
			return nil, fmt.Errorf("ollama embed failed: %w", err)
		}

		if len(resp.Embeddings) != len(inputs) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(resp.Embeddings))
		}
		return resp.Embeddings, nil
	})
}
