// Package aggregate merges fetcher outputs into one deduplicated, date-ordered list.
package aggregate

import (
	"sort"
	"time"

	"github.com/contenthub/internal/models"
)

// Aggregate flattens lists, keeps only sourceFilter articles when set,
// drops repeated and empty links (first occurrence wins), sorts newest first
// and truncates to limit when limit > 0. Undated articles sort last.
// The inputs are not modified.
func Aggregate(lists [][]models.Article, sourceFilter models.ArticleType, limit int) []models.Article {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	seen := make(map[string]struct{}, total)
	out := make([]models.Article, 0, total)
	for _, l := range lists {
		for _, a := range l {
			if sourceFilter != "" && a.Type != sourceFilter {
				continue
			}
			if a.Link == "" {
				continue
			}
			if _, dup := seen[a.Link]; dup {
				continue
			}
			seen[a.Link] = struct{}{}
			out = append(out, a)
		}
	}

	SortByDate(out)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SortByDate sorts newest first. Missing or unparseable dates count as the
// oldest possible time; ties keep their relative order.
func SortByDate(articles []models.Article) {
	times := make([]time.Time, len(articles))
	for i := range articles {
		times[i], _ = articles[i].PublishedAt()
	}
	sort.Stable(byDate{articles: articles, times: times})
}

type byDate struct {
	articles []models.Article
	times    []time.Time
}

func (b byDate) Len() int           { return len(b.articles) }
func (b byDate) Less(i, j int) bool { return b.times[i].After(b.times[j]) }
func (b byDate) Swap(i, j int) {
	b.articles[i], b.articles[j] = b.articles[j], b.articles[i]
	b.times[i], b.times[j] = b.times[j], b.times[i]
}
