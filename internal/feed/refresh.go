package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/contenthub/internal/aggregate"
	"github.com/contenthub/internal/cache"
	"github.com/contenthub/internal/models"
	"github.com/contenthub/internal/quality"
)

// RefreshResult contains the results of a refresh run
type RefreshResult struct {
	SourcesFetched  int
	SourcesFailed   int
	SourcesSkipped  int
	ArticlesFetched int
	ArticlesKept    int
	ViewsWritten    int
	Errors          []error
	Duration        time.Duration
}

// snapshot is the processed output of one fetch. Every view is cut from it.
type snapshot struct {
	// deduplicated, filtered, categorized, tagged and scored, newest first
	articles []models.Article
	// link -> content group of the source that produced it
	groups map[string]string
	// at least one source returned successfully
	fresh bool
}

// view selects the articles of v. The snapshot is not modified.
func (sn *snapshot) view(v View, limit int, minScore float64) []models.Article {
	selected := make([]models.Article, 0, len(sn.articles))
	for _, a := range sn.articles {
		if v.Preference.Includes(sn.groups[a.Link]) {
			selected = append(selected, a)
		}
	}

	out := aggregate.Aggregate([][]models.Article{selected}, v.SourceFilter, limit)
	if v.QualityFilter {
		out = quality.FilterByQuality(out, minScore)
	}
	return out
}

// Refresh fetches every source once, runs the pipeline and writes every view
// to the cache. A run where no source succeeded leaves the cache untouched.
func (s *Service) Refresh(ctx context.Context) *RefreshResult {
	_, result := s.refresh(ctx)
	return result
}

func (s *Service) refresh(ctx context.Context) (*snapshot, *RefreshResult) {
	startTime := time.Now()
	s.log.Info().Msg("Starting feed refresh")

	snap, result := s.build(ctx)

	if !snap.fresh {
		s.log.Warn().
			Int("sources_failed", result.SourcesFailed).
			Msg("No source returned articles, keeping cached feeds")
		result.Duration = time.Since(startTime)
		return snap, result
	}

	for _, v := range Views() {
		if cache.SetJSON(ctx, s.store, v.Key(), snap.view(v, s.cfg.MaxArticles, s.minScore()), s.ttl) {
			result.ViewsWritten++
		}
	}

	result.Duration = time.Since(startTime)
	s.log.Info().
		Int("sources_fetched", result.SourcesFetched).
		Int("sources_failed", result.SourcesFailed).
		Int("articles_fetched", result.ArticlesFetched).
		Int("articles_kept", result.ArticlesKept).
		Int("views_written", result.ViewsWritten).
		Dur("duration", result.Duration).
		Msg("Feed refresh completed")
	return snap, result
}

// build fetches and processes articles without touching the cache
func (s *Service) build(ctx context.Context) (*snapshot, *RefreshResult) {
	result := &RefreshResult{}
	snap := &snapshot{groups: make(map[string]string)}

	// Step 1: Fetch from all sources
	results := s.sources.FetchAll(ctx)
	tiers := s.tierOverrides(ctx)

	lists := make([][]models.Article, 0, len(results))
	for _, r := range results {
		name := r.Source.Name()
		switch {
		case r.Skipped:
			result.SourcesSkipped++
			continue
		case r.Err != nil:
			result.SourcesFailed++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", name, r.Err))
			continue
		}
		result.SourcesFetched++
		snap.fresh = true

		tier, ok := tiers[name]
		if !ok {
			tier = r.Source.Tier()
		}
		group := strings.ToLower(r.Source.Group())

		list := make([]models.Article, len(r.Articles))
		for i, a := range r.Articles {
			if tier != "" {
				a.SourceTier = tier
			}
			if _, seen := snap.groups[a.Link]; !seen {
				snap.groups[a.Link] = group
			}
			list[i] = a
		}
		result.ArticlesFetched += len(list)
		lists = append(lists, list)
	}

	// Step 2: Deduplicate and order
	articles := aggregate.Aggregate(lists, "", 0)

	// Step 3: Drop explicit and non-English content
	articles = s.content.Filter(articles)

	// Step 4: Categorize and tag
	s.categorizer.Categorize(ctx, articles)
	s.matcher(ctx).Apply(articles)

	// Step 5: Score without a user; per-user relevance is applied at read time
	s.scorer.Apply(ctx, articles, nil, s.engagement(ctx, articles))

	snap.articles = articles
	result.ArticlesKept = len(articles)
	return snap, result
}

// tierOverrides returns persisted source tiers, which win over configured ones
func (s *Service) tierOverrides(ctx context.Context) map[string]models.QualityTier {
	tiers := make(map[string]models.QualityTier)
	if s.repo == nil {
		return tiers
	}
	sources, err := s.repo.ListSources(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load source tiers")
		return tiers
	}
	for _, src := range sources {
		if src.QualityTier != "" {
			tiers[src.Name] = src.QualityTier
		}
	}
	return tiers
}

// engagement preloads activity counts for every article in one query
func (s *Service) engagement(ctx context.Context, articles []models.Article) quality.EngagementLookup {
	if s.repo == nil || len(articles) == 0 {
		return nil
	}
	links := make([]string, len(articles))
	for i, a := range articles {
		links[i] = a.Link
	}
	counts, err := s.repo.EngagementByLinks(ctx, links)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load engagement, scoring neutrally")
		return nil
	}
	return func(_ context.Context, link string) (models.Engagement, error) {
		return counts[link], nil
	}
}
