// Package textutil holds the plain-text helpers shared by the fetchers.
package textutil

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	blockTags    = regexp.MustCompile(`(?i)<\s*(br|/p|/div|/li|/h[1-6])\s*/?\s*>`)
)

// StripHTML removes all markup and decodes entities, leaving raw text
// with line breaks where block elements ended.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	s = blockTags.ReplaceAllString(s, "\n")
	s = strictPolicy.Sanitize(s)
	// bluemonday escapes the text it keeps; decode twice to also undo
	// feeds that double-encode entities.
	s = html.UnescapeString(html.UnescapeString(s))
	return s
}

// CollapseWhitespace joins all whitespace runs into single spaces
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanHTML strips markup and collapses whitespace
func CleanHTML(s string) string {
	return CollapseWhitespace(StripHTML(s))
}

// FirstSentences returns the first n sentences of s. A sentence ends at
// '.', '!' or '?' followed by whitespace or the end of the text.
func FirstSentences(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || s == "" {
		return s
	}

	count := 0
	runes := []rune(s)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		count++
		if count == n {
			return strings.TrimSpace(string(runes[:i+1]))
		}
	}
	return s
}

// TruncateAfterPeriod cuts s after the nth sentence-ending period
func TruncateAfterPeriod(s string, n int) string {
	s = strings.TrimSpace(s)
	count := 0
	runes := []rune(s)
	for i, r := range runes {
		if r != '.' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		count++
		if count == n {
			return string(runes[:i+1])
		}
	}
	return s
}

// Truncate limits s to max runes
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
