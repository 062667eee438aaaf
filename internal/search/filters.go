// Package search holds the post-cache feed filters. Every filter is pure and
// keeps the relative order of the articles it lets through.
package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contenthub/internal/models"
)

// ErrInvalidDate is returned when a date-range bound cannot be parsed
var ErrInvalidDate = errors.New("invalid date")

// Filter narrows a list of articles
type Filter func([]models.Article) []models.Article

// Apply runs filters in order
func Apply(articles []models.Article, filters ...Filter) []models.Article {
	for _, f := range filters {
		if f == nil {
			continue
		}
		articles = f(articles)
	}
	return articles
}

func keep(articles []models.Article, pred func(models.Article) bool) []models.Article {
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if pred(a) {
			out = append(out, a)
		}
	}
	return out
}

// Search matches query case-insensitively against title or summary.
// An empty query matches everything.
func Search(query string) Filter {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return func(articles []models.Article) []models.Article {
		return keep(articles, func(a models.Article) bool {
			return strings.Contains(strings.ToLower(a.Title), q) ||
				strings.Contains(strings.ToLower(a.Summary), q)
		})
	}
}

// BySource keeps articles whose source name contains name, case-insensitively
func BySource(name string) Filter {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return nil
	}
	return func(articles []models.Article) []models.Article {
		return keep(articles, func(a models.Article) bool {
			return strings.Contains(strings.ToLower(a.Source), n)
		})
	}
}

// DateRange is an inclusive range; a zero bound is open
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses optional start and end bounds. A date-only end bound
// covers its whole day.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if start != "" {
		t, ok := models.ParsePublished(start)
		if !ok {
			return r, fmt.Errorf("%w: start %q", ErrInvalidDate, start)
		}
		r.Start = t
	}
	if end != "" {
		t, ok := models.ParsePublished(end)
		if !ok {
			return r, fmt.Errorf("%w: end %q", ErrInvalidDate, end)
		}
		if len(strings.TrimSpace(end)) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		r.End = t
	}
	return r, nil
}

// IsZero reports whether both bounds are open
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// ByDateRange keeps articles published within r, bounds included.
// Articles without a parseable date are skipped.
func ByDateRange(r DateRange) Filter {
	if r.IsZero() {
		return nil
	}
	return func(articles []models.Article) []models.Article {
		return keep(articles, func(a models.Article) bool {
			t, ok := a.PublishedAt()
			if !ok {
				return false
			}
			if !r.Start.IsZero() && t.Before(r.Start) {
				return false
			}
			if !r.End.IsZero() && t.After(r.End) {
				return false
			}
			return true
		})
	}
}

// ByCategory keeps articles having at least one of categories
func ByCategory(categories ...string) Filter {
	want := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			want[c] = struct{}{}
		}
	}
	if len(want) == 0 {
		return nil
	}
	return func(articles []models.Article) []models.Article {
		return keep(articles, func(a models.Article) bool {
			for _, c := range a.Categories {
				if _, ok := want[strings.ToLower(c)]; ok {
					return true
				}
			}
			return false
		})
	}
}

// ByUserPreferences applies a user's source and type choices. Sources match
// fuzzily in either direction; both lists are optional and ANDed.
func ByUserPreferences(prefs *models.UserFeedPreferences) Filter {
	if prefs == nil || (len(prefs.FeedSources) == 0 && len(prefs.FeedTypes) == 0) {
		return nil
	}

	sources := make([]string, 0, len(prefs.FeedSources))
	for _, s := range prefs.FeedSources {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			sources = append(sources, s)
		}
	}
	types := make(map[string]struct{}, len(prefs.FeedTypes))
	for _, t := range prefs.FeedTypes {
		types[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	return func(articles []models.Article) []models.Article {
		return keep(articles, func(a models.Article) bool {
			if len(sources) > 0 && !fuzzySourceMatch(a.Source, sources) {
				return false
			}
			if len(types) > 0 {
				if _, ok := types[strings.ToLower(string(a.Type))]; !ok {
					return false
				}
			}
			return true
		})
	}
}

func fuzzySourceMatch(source string, wanted []string) bool {
	s := strings.ToLower(source)
	if s == "" {
		return false
	}
	for _, w := range wanted {
		if strings.Contains(s, w) || strings.Contains(w, s) {
			return true
		}
	}
	return false
}

// ExcludeLinks drops articles whose link is in links
func ExcludeLinks(links []string) Filter {
	if len(links) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(links))
	for _, l := range links {
		set[l] = struct{}{}
	}
	return func(articles []models.Article) []models.Article {
		return keep(articles, func(a models.Article) bool {
			_, read := set[a.Link]
			return !read
		})
	}
}
