package utils

import (
	"strings"
)

// NormalizeLinkTarget reduces a URL to the loose comparison form used by
// the DOI validator: scheme stripped, one leading "www." removed, and
// trailing slashes trimmed. Query strings, path casing, and URL encoding
// are deliberately left untouched so classification stays stable.
func NormalizeLinkTarget(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimRight(s, "/")
}

// DedupPreservingOrder removes duplicate strings while keeping the first
// occurrence of each in its original position.
func DedupPreservingOrder(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// SplitLines splits free-form pasted text into trimmed, non-blank lines.
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// CollapseWhitespace normalizes runs of whitespace to single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
