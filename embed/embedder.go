// Package embed turns text into vectors for the bill summary index.
//
// Every call names its Task explicitly. Documents written to the index are
// embedded with TaskDocument and search text with TaskQuery; the two produce
// vectors in the same space tuned for opposite sides of the search.
package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SaiNageswarS/go-collection-boot/async"
)

type Task string

const (
	TaskDocument Task = "RETRIEVAL_DOCUMENT"
	TaskQuery    Task = "RETRIEVAL_QUERY"
)

// Embedder converts a batch of inputs into one vector per input.
type Embedder interface {
	Embed(ctx context.Context, task Task, inputs []string) <-chan async.Result[[][]float32]
}

// Func is an embedder bound to a single task.
type Func func(ctx context.Context, inputs []string) <-chan async.Result[[][]float32]

func ForIndexing(e Embedder) Func {
	return func(ctx context.Context, inputs []string) <-chan async.Result[[][]float32] {
		return e.Embed(ctx, TaskDocument, inputs)
	}
}

func ForQuery(e Embedder) Func {
	return func(ctx context.Context, inputs []string) <-chan async.Result[[][]float32] {
		return e.Embed(ctx, TaskQuery, inputs)
	}
}

// StatusError is a non-2xx answer from an embedding service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("embedding request failed with status %d: %s", e.StatusCode, e.Body)
}

// IsTransient reports whether err is a rate limit or temporary unavailability.
func IsTransient(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode == http.StatusServiceUnavailable
}
