// internal/citation/citation.go

// Package citation builds APA and IEEE citation strings from scraped
// article records. Both formatters fail closed: when a structurally
// required field is missing they return a fixed placeholder message
// rather than a partial citation, and they never return an error.
package citation

import (
	"fmt"
	"strings"

	"github.com/valpere/JournalScrapexter/pkg/types"
)

// Placeholder messages returned when citation assembly fails.
const (
	APAUnavailable  = "APA Citation could not be generated (missing data)."
	IEEEUnavailable = "IEEE Citation could not be generated (missing data)."
)

// author is one parsed author name: leading tokens become initials, the
// last token is the surname.
type author struct {
	initials []string
	surname  string
}

// parseAuthors splits the display author string ("First Last, A B Last")
// into structured names. It reports false when the string is a sentinel
// or any name fails to parse.
func parseAuthors(display string) ([]author, bool) {
	if !types.Found(display) {
		return nil, false
	}

	var authors []author
	for _, name := range strings.Split(display, ", ") {
		tokens := strings.Fields(name)
		if len(tokens) == 0 {
			return nil, false
		}

		a := author{surname: tokens[len(tokens)-1]}
		for _, given := range tokens[:len(tokens)-1] {
			first := []rune(given)[0]
			a.initials = append(a.initials, strings.ToUpper(string(first))+".")
		}
		authors = append(authors, a)
	}
	return authors, true
}

// formatAuthorsAPA renders "Surname, I.I." per author, joined with ", "
// and the final author joined with ", & ".
func formatAuthorsAPA(authors []author) string {
	parts := make([]string, len(authors))
	for i, a := range authors {
		if len(a.initials) == 0 {
			parts[i] = a.surname
		} else {
			parts[i] = a.surname + ", " + strings.Join(a.initials, "")
		}
	}

	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", & " + parts[len(parts)-1]
}

// formatAuthorsIEEE renders "I.I. Surname" per author, joined with " and ".
func formatAuthorsIEEE(authors []author) string {
	parts := make([]string, len(authors))
	for i, a := range authors {
		if len(a.initials) == 0 {
			parts[i] = a.surname
		} else {
			parts[i] = strings.Join(a.initials, "") + " " + a.surname
		}
	}
	return strings.Join(parts, " and ")
}

// APA builds an APA-style citation:
//
//	Surname, I.I., & Surname, I.I. (Year). Title. Journal, Volume, Pages. https://doi.org/DOI
//
// The page segment appears only when the page range is genuine; other
// sentinel fields render verbatim, matching the browsable table.
func APA(record *types.ArticleRecord) string {
	authors, ok := parseAuthors(record.Authors)
	if !ok || !types.Found(record.PaperTitle) {
		return APAUnavailable
	}

	authorBlock := formatAuthorsAPA(authors)
	if !strings.HasSuffix(authorBlock, ".") {
		authorBlock += "."
	}

	parts := []string{
		authorBlock,
		fmt.Sprintf("(%s).", record.Year),
		record.PaperTitle + ".",
	}

	journalInfo := fmt.Sprintf("%s, %s", record.JournalName, record.VolumeIssue)
	if types.Found(record.PageRange) {
		journalInfo += ", " + record.PageRange
	}
	parts = append(parts, journalInfo+".")
	parts = append(parts, "https://doi.org/"+record.RawDOI)

	return strings.Join(parts, " ")
}

// IEEE builds an IEEE-style citation:
//
//	I.I. Surname and I.I. Surname, "Title," Journal, vol. V, no. I, pp. Pages, Mon. Year, doi: DOI.
//
// Volume and issue split out of the combined "V(I)" form when present;
// otherwise the combined string is used as the volume. The pages and
// month/year segments appear only when their source fields are genuine.
func IEEE(record *types.ArticleRecord) string {
	authors, ok := parseAuthors(record.Authors)
	if !ok || !types.Found(record.PaperTitle) {
		return IEEEUnavailable
	}

	parts := []string{
		formatAuthorsIEEE(authors) + ",",
		fmt.Sprintf(`"%s,"`, record.PaperTitle),
	}

	if volume, issue, split := types.SplitVolumeIssue(record.VolumeIssue); split {
		parts = append(parts, fmt.Sprintf("%s, vol. %s, no. %s,", record.JournalName, volume, issue))
	} else {
		parts = append(parts, fmt.Sprintf("%s, vol. %s,", record.JournalName, record.VolumeIssue))
	}

	if types.Found(record.PageRange) {
		parts = append(parts, fmt.Sprintf("pp. %s,", record.PageRange))
	}
	if record.Month != "" && types.Found(record.Year) {
		parts = append(parts, fmt.Sprintf("%s. %s,", record.Month, record.Year))
	}
	parts = append(parts, fmt.Sprintf("doi: %s.", record.RawDOI))

	return strings.Join(parts, " ")
}
