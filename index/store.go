// Package index is a persistent vector index backed by sqlite.
//
// Documents live in named collections. Bodies are embedded for indexing on
// upsert and query text is embedded for search on query; the caller never
// chooses the embedding task.
package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/glebarez/sqlite"
	"github.com/nwbvt/congressbot/embed"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const dbFileName = "index.db"

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrInvalidFilter      = errors.New("invalid metadata filter")
)

type Store struct {
	db *gorm.DB
}

// Open opens the index stored under dir, creating it when absent.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	path := filepath.Join(dir, dbFileName)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}

	if err := db.AutoMigrate(&collectionModel{}, &documentModel{}); err != nil {
		return nil, fmt.Errorf("migrate index: %w", err)
	}

	logger.Info("Opened vector index", zap.String("path", path))
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetOrCreateCollection returns the named collection, creating it if needed.
func (s *Store) GetOrCreateCollection(ctx context.Context, name string, embedder embed.Embedder) (*Collection, error) {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&collectionModel{Name: name}).Error
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	return newCollection(s.db, name, embedder), nil
}

// GetCollection returns ErrCollectionNotFound when name was never created.
func (s *Store) GetCollection(ctx context.Context, name string, embedder embed.Embedder) (*Collection, error) {
	var model collectionModel
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", name, err)
	}
	return newCollection(s.db, name, embedder), nil
}

// Collections lists collection names in creation order.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&collectionModel{}).Order("created_at, name").Pluck("name", &names).Error
	return names, err
}
