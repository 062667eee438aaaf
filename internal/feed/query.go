package feed

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/contenthub/internal/cache"
	"github.com/contenthub/internal/models"
	"github.com/contenthub/internal/quality"
	"github.com/contenthub/internal/search"
	"github.com/contenthub/internal/storage"
)

// Defaults used when the configuration leaves them unset
const (
	DefaultPageSize       = 20
	MaxPageSize           = 100
	DefaultReadHistoryTTL = time.Minute
	// LiveRefreshTimeout bounds a refresh run on behalf of a cache miss
	LiveRefreshTimeout = 2 * time.Minute
)

// Query selects one page of a feed and the filters applied to it
type Query struct {
	UserID         string                   `json:"user_id,omitempty"`
	Page           int                      `json:"page"`
	PerPage        int                      `json:"per_page"`
	SourceFilter   models.ArticleType       `json:"source_filter,omitempty"`
	QualityFilter  bool                     `json:"quality_filter"`
	Preference     models.ContentPreference `json:"content_preference,omitempty"`
	Search         string                   `json:"search,omitempty"`
	Source         string                   `json:"source,omitempty"`
	StartDate      string                   `json:"start_date,omitempty"`
	EndDate        string                   `json:"end_date,omitempty"`
	Categories     []string                 `json:"categories,omitempty"`
	ExcludeRead    bool                     `json:"exclude_read"`
	UsePreferences bool                     `json:"use_preferences"`
}

// Pagination describes where a page sits in the full result
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Page is one page of a feed
type Page struct {
	Articles   []models.Article `json:"articles"`
	Pagination Pagination       `json:"pagination"`
	Filters    Query            `json:"filters"`
}

// Paginate slices items to one page. page is at least 1 and perPage is
// clamped to [1, maxPerPage]; pages past the end are empty.
func Paginate[T any](items []T, page, perPage, maxPerPage int) ([]T, Pagination) {
	if maxPerPage <= 0 {
		maxPerPage = MaxPageSize
	}
	page = max(page, 1)
	perPage = min(max(perPage, 1), maxPerPage)

	total := len(items)
	totalPages := (total + perPage - 1) / perPage

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	return items[start:end], Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// GetFeed serves one page of a feed. Cached views are used when present;
// a miss triggers a live refresh. The only error is invalid date bounds.
func (s *Service) GetFeed(ctx context.Context, q Query) (*Page, error) {
	dates, err := search.ParseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	if q.PerPage <= 0 {
		q.PerPage = s.defaultPageSize()
	}

	var prefs *models.UserFeedPreferences
	if q.UsePreferences {
		prefs = s.preferences(ctx, q.UserID)
	}
	if q.Preference == "" && prefs != nil {
		q.Preference = prefs.ContentPreference
	}

	view := View{SourceFilter: q.SourceFilter, QualityFilter: q.QualityFilter, Preference: q.Preference}
	articles := s.load(ctx, view)

	if tagIDs := s.userTagIDs(ctx, q.UserID); len(tagIDs) > 0 {
		for i := range articles {
			quality.Rescore(&articles[i], tagIDs)
		}
		if view.QualityFilter {
			articles = quality.FilterByQuality(articles, s.minScore())
		}
	}

	var readLinks []string
	if q.ExcludeRead {
		readLinks = s.readLinks(ctx, q.UserID)
	}

	articles = search.Apply(articles,
		search.Search(q.Search),
		search.BySource(q.Source),
		search.ByDateRange(dates),
		search.ByCategory(q.Categories...),
		search.ByUserPreferences(prefs),
		search.ExcludeLinks(readLinks),
	)

	items, pagination := Paginate(articles, q.Page, q.PerPage, s.maxPageSize())
	q.Page, q.PerPage = pagination.Page, pagination.PerPage
	if items == nil {
		items = []models.Article{}
	}
	return &Page{Articles: items, Pagination: pagination, Filters: q}, nil
}

// Articles returns the full article list of a view, cache first
func (s *Service) Articles(ctx context.Context, v View) []models.Article {
	return s.load(ctx, v)
}

// load returns a private copy of the view's articles. Concurrent misses share one live refresh.
func (s *Service) load(ctx context.Context, v View) []models.Article {
	key := v.Key()
	if articles, ok := cache.GetJSON[[]models.Article](ctx, s.store, key); ok {
		return articles
	}

	s.log.WithCacheKey(key).Info().Msg("Feed cache miss, fetching live")
	res, _, _ := s.live.Do("refresh", func() (interface{}, error) {
		// shared by every waiting caller, so one caller going away must not cut it short
		liveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LiveRefreshTimeout)
		defer cancel()
		snap, _ := s.refresh(liveCtx)
		return snap, nil
	})
	snap := res.(*snapshot)

	articles := snap.view(v, s.cfg.MaxArticles, s.minScore())
	if snap.fresh {
		// views outside the refreshed set are cached on demand
		cache.SetJSON(ctx, s.store, key, articles, s.ttl)
	}
	return slices.Clone(articles)
}

// preferences loads a user's feed preferences, nil when unavailable
func (s *Service) preferences(ctx context.Context, userID string) *models.UserFeedPreferences {
	if s.repo == nil || userID == "" {
		return nil
	}
	prefs, err := s.repo.UserPreferences(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.WithUser(userID).Warn().Err(err).Msg("Failed to load feed preferences")
		}
		return nil
	}
	return prefs
}

// readLinks returns the user's recently read links, cached briefly
func (s *Service) readLinks(ctx context.Context, userID string) []string {
	if s.repo == nil || userID == "" {
		return nil
	}
	links, err := cache.Remember(ctx, s.store, cache.ReadHistoryKey(userID), s.readHistoryTTL(),
		func(ctx context.Context) ([]string, error) {
			return s.repo.RecentReadLinks(ctx, userID, s.cfg.ReadHistoryWindow)
		})
	if err != nil {
		s.log.WithUser(userID).Warn().Err(err).Msg("Failed to load read history")
		return nil
	}
	return links
}

func (s *Service) defaultPageSize() int {
	if s.cfg.DefaultPageSize > 0 {
		return s.cfg.DefaultPageSize
	}
	return DefaultPageSize
}

func (s *Service) maxPageSize() int {
	if s.cfg.MaxPageSize > 0 {
		return s.cfg.MaxPageSize
	}
	return MaxPageSize
}

func (s *Service) readHistoryTTL() time.Duration {
	if s.cfg.ReadHistoryTTL > 0 {
		return s.cfg.ReadHistoryTTL
	}
	return DefaultReadHistoryTTL
}
