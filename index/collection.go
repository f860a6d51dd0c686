package index

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/SaiNageswarS/go-collection-boot/ds"
	"github.com/SaiNageswarS/go-collection-boot/linq"
	"github.com/nwbvt/congressbot/embed"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 100

var filterKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type Document struct {
	ID       string
	Body     string
	Metadata map[string]string
}

type Result struct {
	Document
	Similarity float64
}

type Collection struct {
	db       *gorm.DB
	name     string
	embedder embed.Embedder
}

func newCollection(db *gorm.DB, name string, embedder embed.Embedder) *Collection {
	return &Collection{db: db, name: name, embedder: embedder}
}

func (c *Collection) Name() string { return c.name }

// Upsert embeds and stores docs. An existing document with the same id is
// overwritten, so the collection never holds duplicates.
func (c *Collection) Upsert(ctx context.Context, docs ...Document) error {
	docs = lastByID(docs)
	if len(docs) == 0 {
		return nil
	}

	bodies, err := linq.Pipe2(
		linq.FromSlice(ctx, docs),
		linq.Select(func(d Document) string { return d.Body }),
		linq.ToSlice[string](),
	)
	if err != nil {
		return err
	}

	vectors, err := async.Await(c.embedder.Embed(ctx, embed.TaskDocument, bodies))
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	rows := make([]documentModel, len(docs))
	for i, doc := range docs {
		rows[i] = documentModel{
			Collection: c.name,
			ID:         doc.ID,
			Body:       doc.Body,
			Metadata:   doc.Metadata,
			Embedding:  vectors[i],
		}
	}

	err = c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "metadata", "embedding", "updated_at"}),
		}).
		CreateInBatches(&rows, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("upsert into %s: %w", c.name, err)
	}

	logger.Info("Upserted documents", zap.String("collection", c.name), zap.Int("count", len(rows)))
	return nil
}

// Query returns up to k documents most similar to text. Only documents whose
// metadata equals every entry of filters are considered.
func (c *Collection) Query(ctx context.Context, text string, k int, filters map[string]string) ([]Result, error) {
	if k <= 0 {
		return []Result{}, nil
	}

	tx := c.db.WithContext(ctx).Where("collection = ?", c.name)
	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if !filterKeyPattern.MatchString(key) {
			return nil, fmt.Errorf("%w: key %q", ErrInvalidFilter, key)
		}
		tx = tx.Where("json_extract(metadata, ?) = ?", fmt.Sprintf(`$."%s"`, key), filters[key])
	}

	var candidates []documentModel
	if err := tx.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", c.name, err)
	}
	if len(candidates) == 0 {
		return []Result{}, nil
	}

	vectors, err := async.Await(c.embedder.Embed(ctx, embed.TaskQuery, []string{text}))
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}
	query := vectors[0]

	h := ds.NewMinHeap(func(a, b Result) bool { return a.Similarity < b.Similarity })
	for _, row := range candidates {
		h.Push(Result{Document: row.toDocument(), Similarity: cosine(query, row.Embedding)})
		if h.Len() > k {
			h.Pop()
		}
	}

	results := h.ToSortedSlice()
	slices.Reverse(results) // most similar first
	return results, nil
}

func (c *Collection) Get(ctx context.Context, id string) (Document, error) {
	var row documentModel
	err := c.db.WithContext(ctx).Where("collection = ? AND id = ?", c.name, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	if err != nil {
		return Document{}, err
	}
	return row.toDocument(), nil
}

func (c *Collection) Count(ctx context.Context) (int64, error) {
	var n int64
	err := c.db.WithContext(ctx).Model(&documentModel{}).Where("collection = ?", c.name).Count(&n).Error
	return n, err
}

// lastByID keeps the last occurrence of every id, in first-seen order.
func lastByID(docs []Document) []Document {
	pos := make(map[string]int, len(docs))
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if i, ok := pos[doc.ID]; ok {
			out[i] = doc
			continue
		}
		pos[doc.ID] = len(out)
		out = append(out, doc)
	}
	return out
}
