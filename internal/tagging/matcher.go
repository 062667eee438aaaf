// Package tagging attaches vocabulary tags to articles by keyword matching.
package tagging

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/contenthub/internal/models"
)

// Matching defaults
const (
	DefaultMaxTags       = 3
	DefaultMinConfidence = 0.5

	titleWeight   = 2.0
	summaryWeight = 0.5
	fullScore     = 3.0
)

// Match is a tag selected for an article
type Match struct {
	Name       string
	Confidence float64
}

type compiledTag struct {
	name     string
	id       uint
	patterns []*regexp.Regexp
}

// Matcher scores a title and summary against a keyword table
type Matcher struct {
	MaxTags       int
	MinConfidence float64
	tags          []compiledTag
}

// NewMatcher compiles a keyword table. Keywords match on word boundaries, case-insensitively.
func NewMatcher(table []TagKeywords) *Matcher {
	m := &Matcher{
		MaxTags:       DefaultMaxTags,
		MinConfidence: DefaultMinConfidence,
		tags:          make([]compiledTag, 0, len(table)),
	}
	for _, t := range table {
		m.tags = append(m.tags, compile(t, 0))
	}
	return m
}

// NewVocabularyMatcher compiles only the entries of table whose tag exists in the
// persisted vocabulary, so unknown tag names are never surfaced. Matches carry the tag ID.
func NewVocabularyMatcher(table []TagKeywords, vocabulary []*models.Tag) *Matcher {
	ids := make(map[string]uint, len(vocabulary))
	for _, t := range vocabulary {
		ids[t.Name] = t.ID
	}

	m := &Matcher{
		MaxTags:       DefaultMaxTags,
		MinConfidence: DefaultMinConfidence,
	}
	for _, t := range table {
		id, ok := ids[t.Name]
		if !ok {
			continue
		}
		m.tags = append(m.tags, compile(t, id))
	}
	return m
}

func compile(t TagKeywords, id uint) compiledTag {
	c := compiledTag{name: t.Name, id: id}
	for _, kw := range t.Keywords {
		c.patterns = append(c.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToLower(kw))+`\b`))
	}
	return c
}

// Size returns the number of tags the matcher can select
func (m *Matcher) Size() int {
	return len(m.tags)
}

// Match returns at most MaxTags tags with confidence >= MinConfidence, best first
func (m *Matcher) Match(title, summary string) []Match {
	scored := m.score(title, summary)
	out := make([]Match, 0, len(scored))
	for _, s := range scored {
		out = append(out, Match{Name: s.tag.name, Confidence: s.confidence})
	}
	return out
}

// Apply attaches matched tags to every article in place
func (m *Matcher) Apply(articles []models.Article) {
	for i := range articles {
		scored := m.score(articles[i].Title, articles[i].Summary)
		tags := make([]models.ArticleTag, 0, len(scored))
		for _, s := range scored {
			tags = append(tags, models.ArticleTag{
				ID:         s.tag.id,
				Name:       s.tag.name,
				Confidence: math.Round(s.confidence*100) / 100,
			})
		}
		articles[i].Tags = tags
	}
}

type scoredTag struct {
	tag        *compiledTag
	confidence float64
}

func (m *Matcher) score(title, summary string) []scoredTag {
	titleLower := strings.ToLower(title)
	summaryLower := strings.ToLower(summary)

	var scored []scoredTag
	for i := range m.tags {
		t := &m.tags[i]
		raw := 0.0
		for _, p := range t.patterns {
			if p.MatchString(titleLower) {
				raw += titleWeight
			}
			if summaryLower != "" && p.MatchString(summaryLower) {
				raw += summaryWeight
			}
		}
		if raw == 0 {
			continue
		}
		confidence := math.Min(raw/fullScore, 1)
		if confidence < m.MinConfidence {
			continue
		}
		scored = append(scored, scoredTag{tag: t, confidence: confidence})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].confidence != scored[j].confidence {
			return scored[i].confidence > scored[j].confidence
		}
		return scored[i].tag.name < scored[j].tag.name
	})

	if m.MaxTags > 0 && len(scored) > m.MaxTags {
		scored = scored[:m.MaxTags]
	}
	return scored
}
