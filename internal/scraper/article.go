// internal/scraper/article.go
package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/JournalScrapexter/internal/citation"
	"github.com/valpere/JournalScrapexter/internal/utils"
	"github.com/valpere/JournalScrapexter/pkg/types"
)

// Scraper turns article pages into records and listing pages into link
// sets. Invocations are independent and side-effect free apart from their
// own fetch, so callers may parallelize across URLs if they choose.
type Scraper struct {
	client           *Client
	linkSelectors    []string
	headingSelectors []string
	logger           utils.Logger
}

// ScraperConfig defines scraper behavior.
type ScraperConfig struct {
	// LinkSelectors is the prioritized selector list for link discovery
	LinkSelectors []string

	// HeadingSelectors are the heading ranks scanned for volume text
	HeadingSelectors []string

	Logger utils.Logger
}

// NewScraper creates a scraper over the given fetch client.
func NewScraper(client *Client, config ScraperConfig) *Scraper {
	if len(config.HeadingSelectors) == 0 {
		config.HeadingSelectors = []string{"h1", "h2", "h3", "h4"}
	}
	if config.Logger == nil {
		config.Logger = utils.NewComponentLogger("scraper")
	}
	return &Scraper{
		client:           client,
		linkSelectors:    config.LinkSelectors,
		headingSelectors: config.HeadingSelectors,
		logger:           config.Logger,
	}
}

// ScrapeArticle fetches one article page and assembles a complete record.
// listingVolume, when supplied by a parent listing page and genuine,
// overrides the page's own volume meta tags. A transport failure or
// non-success status produces no record.
func (s *Scraper) ScrapeArticle(ctx context.Context, pageURL, listingVolume string) (*types.ArticleRecord, error) {
	doc, err := s.client.FetchDocument(ctx, pageURL)
	if err != nil {
		s.logger.Warnf("failed to scrape %s: %v", pageURL, err)
		return nil, fmt.Errorf("scrape %s: %w", pageURL, err)
	}

	record := BuildRecord(doc, pageURL, listingVolume)
	s.logger.Infof("scraped %s: %s", pageURL, record.PaperTitle)
	return record, nil
}

// BuildRecord runs every field extractor and both citation formatters
// over a parsed article document. Extraction misses surface as sentinel
// strings, never as errors.
func BuildRecord(doc *goquery.Document, pageURL, listingVolume string) *types.ArticleRecord {
	year, month := ExtractPublicationDate(doc)
	rawDOI := ExtractDOI(doc)

	record := &types.ArticleRecord{
		URL:              pageURL,
		JournalName:      ExtractJournalName(doc),
		PaperTitle:       ExtractPaperTitle(doc),
		Authors:          ExtractAuthors(doc),
		Year:             year,
		Month:            month,
		VolumeIssue:      ExtractVolumeIssue(doc, listingVolume),
		ArticleType:      ExtractArticleType(doc),
		PageRange:        ExtractPageRange(doc),
		Abstract:         ExtractAbstract(doc),
		Keywords:         ExtractKeywords(doc),
		RawDOI:           rawDOI,
		DOIURL:           types.DOIResolverURL(rawDOI),
		ValidationRemark: types.RemarkNotChecked,
	}

	record.APACitation = citation.APA(record)
	record.IEEECitation = citation.IEEE(record)
	return record
}
