// pkg/types/types.go
package types

import (
	"fmt"
	"regexp"
	"strings"
)

// Sentinel values returned by field extractors when every signal source
// for a field is absent. Downstream code treats these as ordinary strings.
const (
	JournalNameNotFound = "Journal Name Not Found"
	PaperTitleNotFound  = "Paper Title Not Found"
	AuthorsNotFound     = "Authors Not Found"
	YearNotFound        = "Year Not Found"
	TypeNotFound        = "Type Not Found"
	VolumeNotFound      = "Volume Not Found"
	PageNotFound        = "Page Not Found"
	AbstractNotFound    = "Abstract Not Found"
	KeywordsNotFound    = "Keywords Not Found"
	DOINotFound         = "DOI Not Found"
)

var sentinels = map[string]bool{
	JournalNameNotFound: true,
	PaperTitleNotFound:  true,
	AuthorsNotFound:     true,
	YearNotFound:        true,
	TypeNotFound:        true,
	VolumeNotFound:      true,
	PageNotFound:        true,
	AbstractNotFound:    true,
	KeywordsNotFound:    true,
	DOINotFound:         true,
}

// Found reports whether v carries a genuine extracted value.
func Found(v string) bool {
	return v != "" && !sentinels[v]
}

// ValidationRemark classifies the outcome of a DOI validation pass.
type ValidationRemark string

const (
	RemarkNotChecked ValidationRemark = "Not Checked"
	RemarkMatch      ValidationRemark = "Match"
	RemarkMismatch   ValidationRemark = "Mismatch"
	RemarkPDF        ValidationRemark = "PDF"
	RemarkNotFound   ValidationRemark = "Not Found (404)"
	RemarkLinkError  ValidationRemark = "Link Error"
)

// ValidRemarks returns all valid validation remark values.
func ValidRemarks() []ValidationRemark {
	return []ValidationRemark{
		RemarkNotChecked, RemarkMatch, RemarkMismatch,
		RemarkPDF, RemarkNotFound, RemarkLinkError,
	}
}

// IsValid checks if the remark is a valid value.
func (r ValidationRemark) IsValid() bool {
	for _, valid := range ValidRemarks() {
		if r == valid {
			return true
		}
	}
	return false
}

// ArticleRecord is one scraped journal article. The source URL is the
// identity key: the store holds at most one record per URL, and a
// successful re-scrape fully replaces the previous record.
type ArticleRecord struct {
	URL              string           `json:"url"`
	JournalName      string           `json:"journal_name"`
	PaperTitle       string           `json:"paper_title"`
	Authors          string           `json:"authors"`
	Year             string           `json:"year"`
	Month            string           `json:"month,omitempty"`
	VolumeIssue      string           `json:"volume_issue"`
	ArticleType      string           `json:"article_type"`
	PageRange        string           `json:"page_range"`
	Abstract         string           `json:"abstract"`
	Keywords         string           `json:"keywords"`
	RawDOI           string           `json:"raw_doi"`
	DOIURL           string           `json:"doi_url"`
	APACitation      string           `json:"apa_citation"`
	IEEECitation     string           `json:"ieee_citation"`
	ValidationRemark ValidationRemark `json:"validation_remark"`
	LastValidated    string           `json:"last_validated,omitempty"`
}

// Validate checks that the record satisfies its structural invariants.
func (r *ArticleRecord) Validate() error {
	if r.URL == "" {
		return fmt.Errorf("article record requires a source URL")
	}
	if Found(r.RawDOI) && r.DOIURL != DOIResolverURL(r.RawDOI) {
		return fmt.Errorf("doi_url %q does not match raw DOI %q", r.DOIURL, r.RawDOI)
	}
	if r.ValidationRemark != "" && !r.ValidationRemark.IsValid() {
		return fmt.Errorf("invalid validation remark %q", r.ValidationRemark)
	}
	return nil
}

// DOIResolverURL derives the resolver link for a raw DOI. A sentinel DOI
// stays a sentinel so the derived field is always printable.
func DOIResolverURL(rawDOI string) string {
	if !Found(rawDOI) {
		return DOINotFound
	}
	return "https://doi.org/" + rawDOI
}

// RenderVolumeIssue combines volume and issue numbers into the display
// form used everywhere: "V(I)" when both are known, "V" when only the
// volume is, the sentinel otherwise. The same rule applies whether the
// numbers came from an article page or its parent listing page.
func RenderVolumeIssue(volume, issue string) string {
	switch {
	case volume != "" && issue != "":
		return fmt.Sprintf("%s(%s)", volume, issue)
	case volume != "":
		return volume
	default:
		return VolumeNotFound
	}
}

var volumeIssueRe = regexp.MustCompile(`^(\d+)\((\w+)\)$`)

// SplitVolumeIssue breaks a combined "V(I)" string back into its parts.
// It reports false for the bare-volume and sentinel forms.
func SplitVolumeIssue(combined string) (volume, issue string, ok bool) {
	m := volumeIssueRe.FindStringSubmatch(combined)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// RenderPageRange combines first and last page numbers. Identical pages
// collapse to a single number; a missing endpoint yields the sentinel.
func RenderPageRange(first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	switch {
	case first == "" || last == "":
		return PageNotFound
	case first == last:
		return first
	default:
		return fmt.Sprintf("%s–%s", first, last)
	}
}
