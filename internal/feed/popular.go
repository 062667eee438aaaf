package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/contenthub/internal/aggregate"
	"github.com/contenthub/internal/models"
)

// Look-back windows used when the caller passes none
const (
	DefaultPopularDays  = 7
	DefaultTrendingDays = 1
)

// ErrNoRepository is returned by operations that need persisted user activity
var ErrNoRepository = errors.New("feed: no repository configured")

// RankedArticle is a feed article with a ranking score
type RankedArticle struct {
	models.Article
	Score int `json:"score"`
}

// Popular returns the most read and bookmarked articles of the last days,
// bookmarks weighted double. Only articles still in the feed are returned.
func (s *Service) Popular(ctx context.Context, days, limit int) ([]RankedArticle, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	if days <= 0 {
		days = s.cfg.PopularDays
	}
	if days <= 0 {
		days = DefaultPopularDays
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	counts, err := s.repo.PopularLinks(ctx, since, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity: %w", err)
	}
	if len(counts) == 0 {
		return []RankedArticle{}, nil
	}

	scores := make(map[string]int, len(counts))
	for _, c := range counts {
		scores[c.Link] = c.Score()
	}

	popular := make([]RankedArticle, 0, len(counts))
	for _, a := range s.load(ctx, View{}) {
		if score, ok := scores[a.Link]; ok {
			popular = append(popular, RankedArticle{Article: a, Score: score})
		}
	}
	sortRanked(popular)
	return truncate(popular, limit), nil
}

// Trending returns feed articles published within the last days, newest
// first. Articles without a parseable date count as recent.
func (s *Service) Trending(ctx context.Context, days, limit int) []models.Article {
	if days <= 0 {
		days = DefaultTrendingDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	recent := make([]models.Article, 0)
	for _, a := range s.load(ctx, View{}) {
		if t, ok := a.PublishedAt(); ok && t.Before(cutoff) {
			continue
		}
		recent = append(recent, a)
	}

	aggregate.SortByDate(recent)
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// activityLimit bounds how much history builds a recommendation profile
const activityLimit = 500

// Recommend suggests unseen feed articles from the categories and sources a
// user reads and bookmarks. Users without activity get no recommendations.
func (s *Service) Recommend(ctx context.Context, userID string, limit int) ([]RankedArticle, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	activity, err := s.repo.UserActivity(ctx, userID, activityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	if len(activity) == 0 {
		return []RankedArticle{}, nil
	}

	articles := s.load(ctx, View{})
	byLink := make(map[string]models.Article, len(articles))
	for _, a := range articles {
		byLink[a.Link] = a
	}

	// Build the profile once per seen link; the live feed wins over stored snapshots
	seen := make(map[string]struct{}, len(activity))
	categories := map[string]int{}
	sources := map[string]int{}
	for _, item := range activity {
		if _, dup := seen[item.Link]; dup {
			continue
		}
		seen[item.Link] = struct{}{}

		cats, src := item.Categories, item.Source
		if a, ok := byLink[item.Link]; ok {
			cats, src = a.Categories, a.Source
		}
		for _, c := range cats {
			categories[c]++
		}
		if src != "" {
			sources[src]++
		}
	}

	recommended := make([]RankedArticle, 0)
	for _, a := range articles {
		if _, ok := seen[a.Link]; ok {
			continue
		}
		score := 0
		for _, c := range a.Categories {
			score += categories[c] * 3
		}
		score += sources[a.Source] * 2
		if a.Published != "" {
			score++
		}
		if score > 0 {
			recommended = append(recommended, RankedArticle{Article: a, Score: score})
		}
	}
	sortRanked(recommended)
	return truncate(recommended, limit), nil
}

// sortRanked orders by score, keeping feed order among equals
func sortRanked(items []RankedArticle) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

func truncate(items []RankedArticle, limit int) []RankedArticle {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
