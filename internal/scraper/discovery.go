// internal/scraper/discovery.go
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/JournalScrapexter/pkg/types"
)

// ListingResult holds what one listing-page fetch yielded: the child
// article URLs and the volume string inferred from the page headings.
type ListingResult struct {
	Links  []string
	Volume string
}

// DiscoverListing fetches an issue/volume listing page once and extracts
// both the article links and the shared volume string. Links is empty
// when no selector matched; the caller decides how to surface that.
func (s *Scraper) DiscoverListing(ctx context.Context, listingURL string) (*ListingResult, error) {
	doc, err := s.client.FetchDocument(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", listingURL, err)
	}

	links := ExtractArticleLinks(doc, listingURL, s.linkSelectors)
	if len(links) == 0 {
		s.logger.Warnf("no article links found on %s", listingURL)
	} else {
		s.logger.Infof("found %d article links on %s", len(links), listingURL)
	}

	return &ListingResult{
		Links:  links,
		Volume: InferListingVolume(doc, s.headingSelectors),
	}, nil
}

// ExtractArticleLinks applies a prioritized list of selectors against a
// listing document, returning the first selector's results that yields at
// least one link. Relative hrefs are resolved against the listing URL.
func ExtractArticleLinks(doc *goquery.Document, listingURL string, selectors []string) []string {
	base, baseErr := url.Parse(listingURL)

	for _, selector := range selectors {
		var links []string
		doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
			href, exists := sel.Attr("href")
			href = strings.TrimSpace(href)
			if !exists || href == "" {
				return
			}
			if baseErr == nil {
				if ref, err := url.Parse(href); err == nil {
					href = base.ResolveReference(ref).String()
				}
			}
			links = append(links, href)
		})
		if len(links) > 0 {
			return links
		}
	}
	return nil
}

// InferListingVolume scans heading elements rank by rank for volume/issue
// text, returning the first genuine parse. Every article discovered on
// the listing inherits this volume string.
func InferListingVolume(doc *goquery.Document, headingSelectors []string) string {
	for _, selector := range headingSelectors {
		volume := types.VolumeNotFound
		doc.Find(selector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
			if parsed := ParseVolumeIssue(sel.Text()); types.Found(parsed) {
				volume = parsed
				return false
			}
			return true
		})
		if types.Found(volume) {
			return volume
		}
	}
	return types.VolumeNotFound
}
