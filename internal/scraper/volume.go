// internal/scraper/volume.go
package scraper

import (
	"regexp"
	"strings"

	"github.com/valpere/JournalScrapexter/pkg/types"
)

// Volume and issue numbers appear in listing-page headings in loosely
// standardized forms: "Volume 12", "Vol. 5 No. 2", "Volume 10, Issue 2 A".
// The two patterns match independently; the word boundary after the
// keyword keeps "No" from matching inside words like "November".
var (
	volumeTextRe = regexp.MustCompile(`(?i)\bvol(?:ume)?\b\.?\s*(\d+)`)
	issueTextRe  = regexp.MustCompile(`(?i)\b(?:issue|iss|no)\b\.?\s*([0-9A-Za-z]+(?:\s+[0-9A-Za-z]+)?)`)
)

// ParseVolumeIssue extracts volume/issue numbers from heading text and
// renders them in the combined display form. Internal whitespace in a
// matched issue token is stripped, so "Issue 2 A" renders as "2A".
// An issue without a volume yields the sentinel.
func ParseVolumeIssue(text string) string {
	var volume, issue string

	if m := volumeTextRe.FindStringSubmatch(text); m != nil {
		volume = m[1]
	}
	if m := issueTextRe.FindStringSubmatch(text); m != nil {
		issue = strings.Join(strings.Fields(m[1]), "")
	}

	return types.RenderVolumeIssue(volume, issue)
}
