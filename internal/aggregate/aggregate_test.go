package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contenthub/internal/models"
)

func links(articles []models.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Link)
	}
	return out
}

func TestAggregateRemovesDuplicates(t *testing.T) {
	lists := [][]models.Article{
		{{Title: "First", Link: "https://example.com/1", Published: "2024-01-01T10:00:00", Type: models.ArticleTypeRSS}},
		{{Title: "Copy", Link: "https://example.com/1", Published: "2024-01-02T10:00:00", Type: models.ArticleTypeScrape}},
	}

	out := Aggregate(lists, "", 0)

	if assert.Len(t, out, 1) {
		assert.Equal(t, "First", out[0].Title, "first occurrence wins")
	}
}

func TestAggregateSortsNewestFirst(t *testing.T) {
	lists := [][]models.Article{{
		{Link: "old", Published: "2024-01-01T10:00:00"},
		{Link: "new", Published: "2024-01-15T10:00:00"},
		{Link: "mid", Published: "2024-01-10T10:00:00"},
	}}

	assert.Equal(t, []string{"new", "mid", "old"}, links(Aggregate(lists, "", 0)))
}

func TestAggregateUndatedLast(t *testing.T) {
	lists := [][]models.Article{{
		{Link: "none", Published: ""},
		{Link: "dated", Published: "2024-01-01T10:00:00Z"},
		{Link: "garbage", Published: "last tuesday"},
	}}

	assert.Equal(t, []string{"dated", "none", "garbage"}, links(Aggregate(lists, "", 0)))
}

func TestAggregateSourceFilter(t *testing.T) {
	lists := [][]models.Article{
		{{Link: "r1", Type: models.ArticleTypeRSS, Published: "2024-01-01T10:00:00"}},
		{{Link: "s1", Type: models.ArticleTypeScrape, Published: "2024-01-02T10:00:00"}},
		{{Link: "r2", Type: models.ArticleTypeRSS, Published: "2024-01-03T10:00:00"}},
	}

	out := Aggregate(lists, models.ArticleTypeRSS, 0)
	assert.Equal(t, []string{"r2", "r1"}, links(out))
	for _, a := range out {
		assert.Equal(t, models.ArticleTypeRSS, a.Type)
	}
}

func TestAggregateLimit(t *testing.T) {
	var list []models.Article
	for i := 0; i < 10; i++ {
		list = append(list, models.Article{Link: string(rune('a' + i)), Published: "2024-01-01T10:00:00"})
	}

	out := Aggregate([][]models.Article{list}, "", 5)
	assert.Len(t, out, 5)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, links(out), "equal dates keep input order")
}

func TestAggregateDropsEmptyLinks(t *testing.T) {
	out := Aggregate([][]models.Article{{{Title: "no link"}, {Link: "x"}}}, "", 0)
	assert.Equal(t, []string{"x"}, links(out))
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	list := []models.Article{
		{Link: "old", Published: "2024-01-01T10:00:00"},
		{Link: "new", Published: "2024-01-15T10:00:00"},
	}
	Aggregate([][]models.Article{list}, "", 0)
	assert.Equal(t, "old", list[0].Link)
}
