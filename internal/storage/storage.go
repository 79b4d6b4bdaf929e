// internal/storage/storage.go

// Package storage persists scraped article records. A single Store
// interface fronts four backends (SQLite, PostgreSQL, MySQL, MongoDB),
// all keyed by article URL so re-submitting a link replaces the stored
// row in full.
package storage

import (
	"context"
	"fmt"

	"github.com/valpere/JournalScrapexter/internal/config"
	"github.com/valpere/JournalScrapexter/pkg/types"
)

// Store is the article persistence interface used by the pipeline,
// validator, and export paths.
type Store interface {
	// UpsertArticle inserts the record or fully replaces the row with
	// the same URL.
	UpsertArticle(ctx context.Context, record *types.ArticleRecord) error

	// AllArticles returns every stored record.
	AllArticles(ctx context.Context) ([]types.ArticleRecord, error)

	// UncheckedArticles returns records still carrying the "Not Checked"
	// validation remark.
	UncheckedArticles(ctx context.Context) ([]types.ArticleRecord, error)

	// ArticleURLs returns the set of stored article URLs.
	ArticleURLs(ctx context.Context) (map[string]bool, error)

	// UpdateRemark records a validation outcome and its date for one URL.
	UpdateRemark(ctx context.Context, url string, remark types.ValidationRemark, date string) error

	// DeleteByURLs removes the given URLs, returning the removed count.
	DeleteByURLs(ctx context.Context, urls []string) (int64, error)

	// DeleteAll empties the store, returning the removed count.
	DeleteAll(ctx context.Context) (int64, error)

	Close() error
}

// New opens the store configured by cfg.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "sqlite":
		return NewSQLiteStore(cfg.Path, cfg.Table)
	case "postgresql":
		return NewPostgresStore(cfg.DSN, cfg.Table)
	case "mysql":
		return NewMySQLStore(cfg.DSN, cfg.Table)
	case "mongodb":
		return NewMongoStore(ctx, cfg.DSN, cfg.Database, cfg.Collection)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
