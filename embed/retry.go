package embed

import (
	"context"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval: time.Second,
		MaxInterval:     time.Minute,
		MaxRetries:      8,
	}
}

type retryingEmbedder struct {
	next   Embedder
	policy RetryPolicy
}

// WithRetry retries transient failures (429, 503) of next with exponential
// backoff. Any other error is returned on the first attempt.
func WithRetry(next Embedder, policy RetryPolicy) Embedder {
	return &retryingEmbedder{next: next, policy: policy}
}

func (r *retryingEmbedder) Embed(ctx context.Context, task Task, inputs []string) <-chan async.Result[[][]float32] {
	return async.Go(func() ([][]float32, error) {
		var vectors [][]float32
		attempt := 0

		op := func() error {
			attempt++
			out, err := async.Await(r.next.Embed(ctx, task, inputs))
			if err != nil {
				if IsTransient(err) {
					return err
				}
				return backoff.Permanent(err)
			}
			vectors = out
			return nil
		}

		notify := func(err error, wait time.Duration) {
			logger.Info("Retrying embedding request",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
		}

		if err := backoff.RetryNotify(op, r.backOff(ctx), notify); err != nil {
			return nil, err
		}
		return vectors, nil
	})
}

func (r *retryingEmbedder) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, r.policy.MaxRetries), ctx)
}
