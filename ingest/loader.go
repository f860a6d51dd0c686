package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/nwbvt/congressbot/embed"
	"github.com/nwbvt/congressbot/index"
	"go.uber.org/zap"
)

const defaultBatchSize = 50

type LoadStats struct {
	Documents int `json:"documents"`
	Failures  int `json:"failures"`
}

// Loader feeds extracted documents into a collection of the vector index.
type Loader struct {
	source    Source
	store     *index.Store
	embedder  embed.Embedder
	bulkURL   string
	batchSize int
}

func NewLoader(source Source, store *index.Store, embedder embed.Embedder, bulkURL string) *Loader {
	if bulkURL == "" {
		bulkURL = DefaultBulkURL
	}
	return &Loader{
		source:    source,
		store:     store,
		embedder:  embedder,
		bulkURL:   strings.TrimRight(bulkURL, "/"),
		batchSize: defaultBatchSize,
	}
}

// Load walks {bulkURL}/{collection}/{congress} and upserts every document.
// Node failures are counted and skipped.
func (l *Loader) Load(ctx context.Context, profile Profile, congress int) (LoadStats, error) {
	var stats LoadStats

	extractor, err := NewExtractor(l.source, profile.Selectors)
	if err != nil {
		return stats, err
	}
	collection, err := l.store.GetOrCreateCollection(ctx, profile.IndexCollection, l.embedder)
	if err != nil {
		return stats, err
	}

	root := fmt.Sprintf("%s/%s/%d", l.bulkURL, profile.BulkCollection, congress)
	logger.Info("Loading bulk data", zap.String("url", root), zap.String("collection", profile.IndexCollection))

	batch := make([]index.Document, 0, l.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := collection.Upsert(ctx, batch...); err != nil {
			return err
		}
		stats.Documents += len(batch)
		batch = batch[:0]
		return nil
	}

	for doc, err := range extractor.Documents(ctx, root) {
		var nodeErr *NodeError
		if errors.As(err, &nodeErr) {
			stats.Failures++
			continue
		}
		if err != nil {
			return stats, err
		}

		batch = append(batch, doc)
		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := flush(); err != nil {
		return stats, err
	}

	logger.Info("Finished loading bulk data",
		zap.String("collection", profile.IndexCollection),
		zap.Int("documents", stats.Documents),
		zap.Int("failures", stats.Failures))
	return stats, nil
}
