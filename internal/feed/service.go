// Package feed runs the aggregation pipeline and serves cached, personalized feeds.
package feed

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/contenthub/internal/cache"
	"github.com/contenthub/internal/categorize"
	"github.com/contenthub/internal/config"
	"github.com/contenthub/internal/filter"
	"github.com/contenthub/internal/models"
	"github.com/contenthub/internal/quality"
	"github.com/contenthub/internal/source"
	"github.com/contenthub/internal/storage"
	"github.com/contenthub/internal/tagging"
	"github.com/contenthub/pkg/logger"
)

// View identifies one cached rendition of the feed
type View struct {
	SourceFilter  models.ArticleType
	QualityFilter bool
	Preference    models.ContentPreference
}

// Key is the cache key of the view
func (v View) Key() string {
	return cache.FeedKey(v.SourceFilter, v.QualityFilter, v.Preference)
}

// Views lists every view the refresh job writes
func Views() []View {
	filters := []models.ArticleType{"", models.ArticleTypeRSS, models.ArticleTypeScrape, models.ArticleTypeReddit, models.ArticleTypeYouTube}
	prefs := []models.ContentPreference{models.PreferenceBoth, models.PreferenceTech, models.PreferenceGeneral}

	views := make([]View, 0, len(filters)*len(prefs)*2)
	for _, f := range filters {
		for _, q := range []bool{false, true} {
			for _, p := range prefs {
				views = append(views, View{SourceFilter: f, QualityFilter: q, Preference: p})
			}
		}
	}
	return views
}

// Service builds feeds from the registered sources and serves them from cache
type Service struct {
	sources     *source.Manager
	categorizer categorize.Categorizer
	keywords    []tagging.TagKeywords
	scorer      *quality.Scorer
	content     *filter.ContentFilter
	store       cache.Store
	repo        storage.Repository
	cfg         config.FeedConfig
	ttl         time.Duration
	live        singleflight.Group
	log         *logger.Logger
}

// Option configures a Service
type Option func(*Service)

// WithCategorizer replaces the keyword categorizer
func WithCategorizer(c categorize.Categorizer) Option {
	return func(s *Service) {
		if c != nil {
			s.categorizer = c
		}
	}
}

// WithRepository enables persisted tiers, engagement, tags and user data
func WithRepository(repo storage.Repository) Option {
	return func(s *Service) { s.repo = repo }
}

// WithScorer replaces the wall-clock scorer
func WithScorer(sc *quality.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithKeywords replaces the built-in tag keyword table
func WithKeywords(table []tagging.TagKeywords) Option {
	return func(s *Service) { s.keywords = table }
}

// NewService creates a feed service. store may be nil for an uncached service.
func NewService(
	sources *source.Manager,
	store cache.Store,
	cfg config.FeedConfig,
	ttl time.Duration,
	log *logger.Logger,
	opts ...Option,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if store == nil {
		store = cache.Noop{}
	}
	s := &Service{
		sources:     sources,
		categorizer: categorize.NewKeyword(),
		keywords:    tagging.DefaultKeywords,
		scorer:      quality.NewScorer(),
		content:     filter.NewContentFilter(log),
		store:       store,
		cfg:         cfg,
		ttl:         ttl,
		log:         log.WithComponent("feed"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the cache the service reads and writes
func (s *Service) Store() cache.Store {
	return s.store
}

// Close releases the cache and repository
func (s *Service) Close() error {
	err := s.store.Close()
	if s.repo != nil {
		if rerr := s.repo.Close(); err == nil {
			err = rerr
		}
	}
	return err
}

func (s *Service) minScore() float64 {
	if s.cfg.MinQualityScore > 0 {
		return s.cfg.MinQualityScore
	}
	return quality.DefaultMinScore
}

// matcher builds the tag matcher, restricted to the persisted vocabulary when there is one
func (s *Service) matcher(ctx context.Context) *tagging.Matcher {
	if s.repo == nil {
		return tagging.NewMatcher(s.keywords)
	}
	vocabulary, err := s.repo.ListTags(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load tag vocabulary, using built-in keywords")
		return tagging.NewMatcher(s.keywords)
	}
	if len(vocabulary) == 0 {
		return tagging.NewMatcher(s.keywords)
	}
	return tagging.NewVocabularyMatcher(s.keywords, vocabulary)
}

// userTagIDs returns the tags a user follows, nil without a user or repository
func (s *Service) userTagIDs(ctx context.Context, userID string) []uint {
	if s.repo == nil || userID == "" {
		return nil
	}
	ids, err := s.repo.UserTagIDs(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to load user tags")
		return nil
	}
	return ids
}
