package tagging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contenthub/internal/models"
)

func names(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Name)
	}
	return out
}

func TestMatchWordBoundary(t *testing.T) {
	m := NewMatcher(DefaultKeywords)

	got := m.Match("Python 3.12 released", "")
	require.Contains(t, names(got), "Python")
	for _, g := range got {
		if g.Name == "Python" {
			assert.GreaterOrEqual(t, g.Confidence, 0.5)
		}
	}

	assert.NotContains(t, names(m.Match("Pythonic idioms explained", "")), "Python")
}

func TestMatchSummaryOnlyIsBelowThreshold(t *testing.T) {
	m := NewMatcher(DefaultKeywords)
	assert.Empty(t, m.Match("Weekly release notes", "A python refresher"))
}

func TestMatchConfidenceCapped(t *testing.T) {
	m := NewMatcher(DefaultKeywords)
	for _, g := range m.Match("Django apps in Python tested with pytest", "") {
		if g.Name == "Python" {
			assert.Equal(t, 1.0, g.Confidence)
			return
		}
	}
	t.Fatal("Python tag not matched")
}

func TestMatchMaxTags(t *testing.T) {
	m := NewMatcher(DefaultKeywords)
	got := m.Match("Docker Kubernetes Terraform Redis guide", "")
	assert.Equal(t, []string{"Docker", "Kubernetes", "Redis"}, names(got))
}

func TestVocabularyMatcherSkipsUnknownTags(t *testing.T) {
	vocab := []*models.Tag{{ID: 7, Name: "Python"}}
	m := NewVocabularyMatcher(DefaultKeywords, vocab)
	assert.Equal(t, 1, m.Size())

	articles := []models.Article{{Title: "Python and Rust interop", Link: "x"}}
	m.Apply(articles)

	require.Len(t, articles[0].Tags, 1)
	assert.Equal(t, models.ArticleTag{ID: 7, Name: "Python", Confidence: 0.67}, articles[0].Tags[0])
}

func TestKeywordTableHasUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range DefaultKeywords {
		assert.False(t, seen[k.Name], "duplicate tag %s", k.Name)
		seen[k.Name] = true
		assert.NotEmpty(t, k.Keywords)
	}
}
