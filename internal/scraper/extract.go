// internal/scraper/extract.go
package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/valpere/JournalScrapexter/internal/utils"
	"github.com/valpere/JournalScrapexter/pkg/types"
)

// strategy tries to produce a field value from a parsed document. The
// boolean reports a hit; a miss falls through to the next strategy.
type strategy func(doc *goquery.Document) (string, bool)

// firstMatch runs strategies in order and returns the first hit, or the
// field's sentinel when every signal source misses. Extraction never
// propagates an error past this boundary.
func firstMatch(doc *goquery.Document, sentinel string, strategies ...strategy) string {
	for _, try := range strategies {
		if value, ok := try(doc); ok {
			return value
		}
	}
	return sentinel
}

// metaContent reads <meta name=...> content.
func metaContent(doc *goquery.Document, name string) (string, bool) {
	value, exists := doc.Find(fmt.Sprintf("meta[name=%q]", name)).First().Attr("content")
	value = strings.TrimSpace(value)
	return value, exists && value != ""
}

// metaProperty reads <meta property=...> content (Open Graph tags).
func metaProperty(doc *goquery.Document, property string) (string, bool) {
	value, exists := doc.Find(fmt.Sprintf("meta[property=%q]", property)).First().Attr("content")
	value = strings.TrimSpace(value)
	return value, exists && value != ""
}

func citationMeta(name string) strategy {
	return func(doc *goquery.Document) (string, bool) {
		return metaContent(doc, name)
	}
}

func openGraphMeta(property string) strategy {
	return func(doc *goquery.Document) (string, bool) {
		return metaProperty(doc, property)
	}
}

// ExtractJournalName reads the journal title from the structured citation
// meta tag, falling back to the social-preview site name.
func ExtractJournalName(doc *goquery.Document) string {
	return firstMatch(doc, types.JournalNameNotFound,
		citationMeta("citation_journal_title"),
		openGraphMeta("og:site_name"),
	)
}

// ExtractPaperTitle reads the article title. The social-preview title is
// rejected when it equals the journal name, which happens on masthead
// pages where og:title carries the site name.
func ExtractPaperTitle(doc *goquery.Document) string {
	return firstMatch(doc, types.PaperTitleNotFound,
		func(doc *goquery.Document) (string, bool) {
			title, ok := metaProperty(doc, "og:title")
			if !ok || title == ExtractJournalName(doc) {
				return "", false
			}
			return title, true
		},
		citationMeta("citation_title"),
		func(doc *goquery.Document) (string, bool) {
			heading := strings.TrimSpace(doc.Find("h1").First().Text())
			return heading, heading != ""
		},
	)
}

// ExtractAuthors joins all structured citation-author tags in document
// order with ", ".
func ExtractAuthors(doc *goquery.Document) string {
	var authors []string
	doc.Find(`meta[name="citation_author"]`).Each(func(i int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			if content = strings.TrimSpace(content); content != "" {
				authors = append(authors, content)
			}
		}
	})
	if len(authors) == 0 {
		return types.AuthorsNotFound
	}
	return strings.Join(authors, ", ")
}

var (
	publishedLabelRe = regexp.MustCompile(`(?i)Published:`)
	publishedDateRe  = regexp.MustCompile(`([A-Za-z]+)\s+(\d{1,2}),\s+(\d{4})`)
)

var monthAbbrs = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var titleCaser = cases.Title(language.English)

// monthAbbrFromName matches a month name case-insensitively by its first
// three letters, returning the canonical abbreviation.
func monthAbbrFromName(name string) (string, bool) {
	if len(name) < 3 {
		return "", false
	}
	candidate := titleCaser.String(strings.ToLower(name))[:3]
	for _, abbr := range monthAbbrs {
		if candidate == abbr {
			return abbr, true
		}
	}
	return "", false
}

// ExtractPublicationDate returns the publication year and 3-letter month
// abbreviation. It first searches visible text around a "Published:"
// label for a "Month D, YYYY" pattern, then falls back to the structured
// date meta tag formatted "YYYY/MM[/DD]". The month defaults to January
// when the meta tag carries only a year. A total miss yields the year
// sentinel with no month.
func ExtractPublicationDate(doc *goquery.Document) (year, month string) {
	if y, m, ok := dateFromPublishedLabel(doc); ok {
		return y, m
	}
	if y, m, ok := dateFromCitationMeta(doc); ok {
		return y, m
	}
	return types.YearNotFound, ""
}

func dateFromPublishedLabel(doc *goquery.Document) (year, month string, ok bool) {
	var found bool
	doc.Find("strong, b, span, dt, label").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if !publishedLabelRe.MatchString(s.Text()) {
			return true
		}
		containerText := utils.CollapseWhitespace(s.Parent().Text())
		m := publishedDateRe.FindStringSubmatch(containerText)
		if m == nil {
			return true
		}
		abbr, valid := monthAbbrFromName(m[1])
		if !valid {
			return true
		}
		year, month, found = m[3], abbr, true
		return false
	})
	return year, month, found
}

func dateFromCitationMeta(doc *goquery.Document) (year, month string, ok bool) {
	dateStr, exists := metaContent(doc, "citation_publication_date")
	if !exists {
		return "", "", false
	}

	parts := strings.Split(dateStr, "/")
	year = strings.TrimSpace(parts[0])
	if year == "" {
		return "", "", false
	}

	monthNum := 1
	if len(parts) > 1 {
		if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && n >= 1 && n <= 12 {
			monthNum = n
		}
	}
	return year, monthAbbrs[monthNum-1], true
}

var sectionLabelRe = regexp.MustCompile(`(?i)Section`)

// ExtractArticleType finds a "Section" label and takes the text of the
// element following its container.
func ExtractArticleType(doc *goquery.Document) string {
	articleType := types.TypeNotFound
	doc.Find("strong, b, span, dt, div, h2, h3, label").EachWithBreak(func(i int, s *goquery.Selection) bool {
		// Match only label-sized elements so a page-level container
		// holding the word somewhere deep inside does not win.
		ownText := utils.CollapseWhitespace(s.Text())
		if len(ownText) > 40 || !sectionLabelRe.MatchString(ownText) {
			return true
		}
		value := utils.CollapseWhitespace(s.Next().Text())
		if value == "" {
			return true
		}
		articleType = value
		return false
	})
	return articleType
}

// ExtractVolumeIssue combines the structured volume and issue meta tags.
// A pre-resolved volume string inherited from a parent listing page takes
// priority over the page's own tags whenever it is a genuine value.
func ExtractVolumeIssue(doc *goquery.Document, listingVolume string) string {
	if types.Found(listingVolume) {
		return listingVolume
	}
	volume, _ := metaContent(doc, "citation_volume")
	issue, _ := metaContent(doc, "citation_issue")
	return types.RenderVolumeIssue(volume, issue)
}

// ExtractPageRange combines the structured firstpage/lastpage meta tags,
// falling back to a visible pages element.
func ExtractPageRange(doc *goquery.Document) string {
	first, firstOK := metaContent(doc, "citation_firstpage")
	last, lastOK := metaContent(doc, "citation_lastpage")
	if firstOK && lastOK {
		return types.RenderPageRange(first, last)
	}

	for _, selector := range []string{"div.item.pages .value", ".pages .value", ".pages"} {
		if text := utils.CollapseWhitespace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return types.PageNotFound
}

var abstractHeadingRe = regexp.MustCompile(`(?i)^\s*Abstract\s*$`)

// ExtractAbstract reads the social-preview description, falling back to
// the element following an "Abstract" heading.
func ExtractAbstract(doc *goquery.Document) string {
	return firstMatch(doc, types.AbstractNotFound,
		openGraphMeta("og:description"),
		func(doc *goquery.Document) (string, bool) {
			var abstract string
			doc.Find("h2, h3").EachWithBreak(func(i int, s *goquery.Selection) bool {
				if !abstractHeadingRe.MatchString(s.Text()) {
					return true
				}
				content := s.NextFiltered("div")
				if content.Length() == 0 {
					content = s.Next()
				}
				if text := utils.CollapseWhitespace(content.Text()); text != "" {
					abstract = text
					return false
				}
				return true
			})
			return abstract, abstract != ""
		},
	)
}

// ExtractKeywords reads the structured keywords meta tag, normalizing
// semicolon separators to commas.
func ExtractKeywords(doc *goquery.Document) string {
	keywords, ok := metaContent(doc, "citation_keywords")
	if !ok {
		return types.KeywordsNotFound
	}
	return strings.ReplaceAll(keywords, ";", ",")
}

// ExtractDOI reads the structured DOI meta tag.
func ExtractDOI(doc *goquery.Document) string {
	return firstMatch(doc, types.DOINotFound,
		citationMeta("citation_doi"),
	)
}
