// internal/pipeline/batch.go

// Package pipeline runs submitted link batches through discovery,
// scraping, and the article store.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valpere/JournalScrapexter/internal/monitoring"
	"github.com/valpere/JournalScrapexter/internal/scraper"
	"github.com/valpere/JournalScrapexter/internal/storage"
	"github.com/valpere/JournalScrapexter/internal/utils"
	"github.com/valpere/JournalScrapexter/pkg/types"
)

// Scraper is the page-level interface the processor drives.
type Scraper interface {
	ScrapeArticle(ctx context.Context, pageURL, listingVolume string) (*types.ArticleRecord, error)
	DiscoverListing(ctx context.Context, listingURL string) (*scraper.ListingResult, error)
}

// FailureKind distinguishes failed listing expansions from failed
// article scrapes in the batch summary.
type FailureKind string

const (
	FailureArticle    FailureKind = "article"
	FailureVolumeLink FailureKind = "volume_link"
)

// FailedLink is one URL the batch could not turn into a stored record.
type FailedLink struct {
	URL    string      `json:"url"`
	Reason string      `json:"reason"`
	Kind   FailureKind `json:"kind"`
}

// Label renders the URL the way the summary lists it, tagging listing
// pages whose expansion failed.
func (f FailedLink) Label() string {
	if f.Kind == FailureVolumeLink {
		return "(Volume Link) " + f.URL
	}
	return f.URL
}

// BatchRequest is a submitted list of article or issue-listing URLs.
type BatchRequest struct {
	URLs []string `json:"urls"`
}

// BatchSummary reports the outcome of one batch run.
type BatchSummary struct {
	Submitted      int          `json:"submitted"`
	Processed      int          `json:"processed"`
	NewRecords     int          `json:"new_records"`
	UpdatedRecords int          `json:"updated_records"`
	Failed         []FailedLink `json:"failed,omitempty"`
}

// ProcessorConfig configures a batch processor.
type ProcessorConfig struct {
	// CollectionPathPattern marks a URL as an issue/volume listing.
	CollectionPathPattern string

	Metrics *monitoring.Metrics
	Logger  utils.Logger
}

// Processor expands, scrapes, and stores link batches sequentially.
type Processor struct {
	scraper           Scraper
	store             storage.Store
	collectionPattern string
	metrics           *monitoring.Metrics
	logger            utils.Logger
}

// NewProcessor creates a batch processor.
func NewProcessor(articleScraper Scraper, store storage.Store, config ProcessorConfig) *Processor {
	if config.CollectionPathPattern == "" {
		config.CollectionPathPattern = "/issue/view/"
	}
	if config.Logger == nil {
		config.Logger = utils.NewComponentLogger("pipeline")
	}
	return &Processor{
		scraper:           articleScraper,
		store:             store,
		collectionPattern: config.CollectionPathPattern,
		metrics:           config.Metrics,
		logger:            config.Logger,
	}
}

// Process runs one batch: deduplicates the submitted URLs preserving
// order, expands issue-listing URLs into their article links, scrapes
// each article once, and upserts results. New and updated counts are
// judged against the store contents at batch start, so a URL scraped
// twice within one batch still counts once.
func (p *Processor) Process(ctx context.Context, request BatchRequest) (*BatchSummary, error) {
	urls := utils.DedupPreservingOrder(request.URLs)
	summary := &BatchSummary{Submitted: len(urls)}

	existing, err := p.store.ArticleURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot stored URLs: %w", err)
	}

	seen := make(map[string]bool)
	for _, link := range urls {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if strings.Contains(link, p.collectionPattern) {
			p.processListing(ctx, link, existing, seen, summary)
			continue
		}
		p.processArticle(ctx, link, "", existing, seen, summary)
	}

	p.logger.Infof("batch complete: %d new, %d updated, %d failed",
		summary.NewRecords, summary.UpdatedRecords, len(summary.Failed))
	return summary, nil
}

// processListing expands one issue/volume listing into article links
// and scrapes each of them with the listing's volume pre-resolved.
func (p *Processor) processListing(ctx context.Context, link string, existing, seen map[string]bool, summary *BatchSummary) {
	result, err := p.scraper.DiscoverListing(ctx, link)
	if err != nil {
		p.metrics.ObserveDiscovery(0)
		p.fail(summary, link, FailureVolumeLink, err.Error())
		return
	}
	if len(result.Links) == 0 {
		p.metrics.ObserveDiscovery(0)
		p.fail(summary, link, FailureVolumeLink, "no article links found")
		return
	}
	p.metrics.ObserveDiscovery(len(result.Links))

	p.logger.Debugf("listing %s expanded to %d article links", link, len(result.Links))
	for _, articleURL := range result.Links {
		p.processArticle(ctx, articleURL, result.Volume, existing, seen, summary)
	}
}

// processArticle scrapes and stores one article URL. Duplicates within
// the batch (submitted twice, or discovered after being submitted) are
// skipped silently.
func (p *Processor) processArticle(ctx context.Context, link, listingVolume string, existing, seen map[string]bool, summary *BatchSummary) {
	if seen[link] {
		return
	}
	seen[link] = true

	record, err := p.scrapeTimed(ctx, link, listingVolume)
	if err != nil {
		p.fail(summary, link, FailureArticle, err.Error())
		return
	}

	if err := p.store.UpsertArticle(ctx, record); err != nil {
		p.fail(summary, link, FailureArticle, err.Error())
		return
	}

	updated := existing[link]
	p.metrics.ObserveUpsert(updated)
	if updated {
		summary.UpdatedRecords++
	} else {
		summary.NewRecords++
	}
	summary.Processed++
}

func (p *Processor) scrapeTimed(ctx context.Context, link, listingVolume string) (*types.ArticleRecord, error) {
	start := time.Now()
	record, err := p.scraper.ScrapeArticle(ctx, link, listingVolume)
	p.metrics.ObserveScrape(time.Since(start), err)
	return record, err
}

func (p *Processor) fail(summary *BatchSummary, link string, kind FailureKind, reason string) {
	p.logger.Warnf("failed %s: %s", link, reason)
	summary.Failed = append(summary.Failed, FailedLink{URL: link, Reason: reason, Kind: kind})
}
