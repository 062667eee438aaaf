// Package filter removes articles that should never reach a feed.
package filter

import (
	"regexp"
	"strings"

	"github.com/contenthub/internal/models"
	"github.com/contenthub/pkg/logger"
)

var explicitKeywords = []string{
	"sex", "porn", "xxx", "adult", "nsfw", "nude", "naked",
	"erotic", "sexual", "sexy", "dating", "hookup", "escort", "webcam",
}

// Curated stopwords of Spanish, Portuguese, French, German and Italian.
// English homographs are tolerated; the ratio threshold absorbs them.
var nonEnglishWords = toSet(
	// Spanish / Portuguese
	"de", "la", "el", "los", "las", "una", "para", "con", "por", "como", "que", "más",
	"computación", "nube", "está", "transformando", "mundo", "visão", "faça", "casa",
	"maneiras", "extrair", "requisitos", "claros", "stakeholders", "indecisos",
	// French
	"le", "les", "une", "des", "dans", "sur", "avec", "pour", "est", "sont",
	// German
	"der", "die", "das", "und", "ist", "sind", "mit", "für", "von", "zu",
	// Italian
	"il", "lo", "gli", "della", "degli", "delle", "alla", "agli", "alle",
)

const (
	nonEnglishRatio   = 0.3
	minWordsForRatio  = 3
	minAccentPatterns = 2
)

var (
	explicitPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(explicitKeywords, "|") + `)\b`)

	// Greek, Cyrillic, Arabic, CJK (Han, Hiragana, Katakana, Hangul), Hebrew, Thai, Devanagari
	nonLatinScript = regexp.MustCompile(`[\x{0370}-\x{03FF}\x{0400}-\x{04FF}\x{0600}-\x{06FF}\x{4E00}-\x{9FFF}\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{AC00}-\x{D7AF}\x{0590}-\x{05FF}\x{0E00}-\x{0E7F}\x{0900}-\x{097F}]`)

	wordToken = regexp.MustCompile(`[\p{L}\p{N}_]+`)

	accentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`ción\b`),
		regexp.MustCompile(`ão\b`),
		regexp.MustCompile(`ões\b`),
		regexp.MustCompile(`[áéíóúãõ]`),
	}
)

// ContentFilter drops explicit and non-English articles
type ContentFilter struct {
	log *logger.Logger
}

// NewContentFilter creates a content filter
func NewContentFilter(log *logger.Logger) *ContentFilter {
	if log == nil {
		log = logger.Nop()
	}
	return &ContentFilter{log: log.WithComponent("content_filter")}
}

// Filter returns the articles that pass both checks, preserving order
func (f *ContentFilter) Filter(articles []models.Article) []models.Article {
	kept := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if Rejected(a) {
			continue
		}
		kept = append(kept, a)
	}

	if removed := len(articles) - len(kept); removed > 0 {
		f.log.Info().
			Int("removed", removed).
			Int("kept", len(kept)).
			Msg("Filtered explicit or non-English content")
	}
	return kept
}

// Rejected reports whether an article fails the explicit or language check
func Rejected(a models.Article) bool {
	text := a.Title + " " + a.Summary
	return IsExplicit(text) || IsNonEnglish(text)
}

// IsExplicit reports whether text contains an explicit keyword as a whole word
func IsExplicit(text string) bool {
	return explicitPattern.MatchString(text)
}

// IsNonEnglish is a heuristic language check. It flags any non-Latin
// script, a high share of foreign stopwords, or Iberian accent patterns.
func IsNonEnglish(text string) bool {
	if nonLatinScript.MatchString(text) {
		return true
	}

	lower := strings.ToLower(text)
	words := wordToken.FindAllString(lower, -1)
	if len(words) < minWordsForRatio {
		return false
	}

	foreign := 0
	for _, w := range words {
		if _, ok := nonEnglishWords[w]; ok {
			foreign++
		}
	}
	if float64(foreign)/float64(len(words)) > nonEnglishRatio {
		return true
	}

	matches := 0
	for _, p := range accentPatterns {
		if p.MatchString(lower) {
			matches++
		}
	}
	return matches >= minAccentPatterns
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
