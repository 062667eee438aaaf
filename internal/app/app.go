// Package app wires configuration into the running pipeline. Both binaries share it.
package app

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"

	"github.com/contenthub/internal/ai"
	"github.com/contenthub/internal/cache"
	"github.com/contenthub/internal/categorize"
	"github.com/contenthub/internal/config"
	"github.com/contenthub/internal/feed"
	"github.com/contenthub/internal/filter"
	"github.com/contenthub/internal/source"
	"github.com/contenthub/internal/source/reddit"
	"github.com/contenthub/internal/source/rss"
	"github.com/contenthub/internal/source/scrape"
	"github.com/contenthub/internal/source/youtube"
	"github.com/contenthub/internal/storage"
	"github.com/contenthub/internal/storage/sqlite"
	"github.com/contenthub/pkg/logger"
	"github.com/contenthub/pkg/ratelimit"
)

// Categorizer providers
const (
	ProviderKeyword = "keyword"
	ProviderAI      = "ai"
)

// App holds the long-lived components built from configuration
type App struct {
	Config  *config.Config
	Repo    storage.Repository
	Store   cache.Store
	Sources *source.Manager
	Feed    *feed.Service
	Limiter *ratelimit.MultiLimiter
}

// New opens storage and cache, registers every enabled source and builds the feed service
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	repo, err := sqlite.New(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := repo.Migrate(); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := cache.New(ctx, cfg.Cache.Driver, cache.RedisConfig{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	}, log)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	limiter := ratelimit.New(cfg.RateLimit.Rates())
	sources := BuildSources(ctx, cfg.Sources, limiter, repo, log)

	svc := feed.NewService(sources, store, cfg.Feed, cfg.Cache.TTL(), log,
		feed.WithRepository(repo),
		feed.WithCategorizer(BuildCategorizer(cfg, store, limiter, log)),
	)

	return &App{
		Config:  cfg,
		Repo:    repo,
		Store:   store,
		Sources: sources,
		Feed:    svc,
		Limiter: limiter,
	}, nil
}

// Close releases the cache and the database
func (a *App) Close() error {
	return a.Feed.Close()
}

// BuildSources registers every enabled source with a new manager
func BuildSources(
	ctx context.Context,
	cfg config.SourcesConfig,
	limiter *ratelimit.MultiLimiter,
	recorder source.HealthRecorder,
	log *logger.Logger,
) *source.Manager {
	if log == nil {
		log = logger.Nop()
	}
	opts := []source.Option{
		source.WithConcurrency(cfg.Concurrency),
		source.WithFetchTimeout(cfg.FetchTimeout),
		source.WithLogger(log),
	}
	if recorder != nil {
		opts = append(opts, source.WithHealthRecorder(recorder))
	}
	m := source.NewManager(opts...)

	// per-fetch deadlines come from the manager's context
	client := &http.Client{}
	httpc := func(limiterName string) *source.HTTPClient {
		return source.NewHTTPClient(client, cfg.UserAgent, limiter, limiterName)
	}

	if cfg.RSS.Enabled {
		for _, src := range rss.NewMultiple(cfg.RSS, httpc(ratelimit.LimiterRSS), log) {
			m.Register(src)
		}
	}
	if cfg.Scrape.Enabled {
		for _, src := range scrape.NewMultiple(cfg.Scrape, httpc(ratelimit.LimiterScrape), log) {
			m.Register(src)
		}
	}
	if cfg.Reddit.Enabled {
		for _, src := range reddit.NewMultiple(cfg.Reddit, filter.NewRedditFilter(), httpc(ratelimit.LimiterReddit), log) {
			m.Register(src)
		}
	}
	if cfg.YouTube.Enabled {
		var stats youtube.StatsFetcher
		if cfg.YouTube.APIKey != "" {
			var apiOpts []option.ClientOption
			if cfg.YouTube.APIEndpoint != "" {
				apiOpts = append(apiOpts, option.WithEndpoint(cfg.YouTube.APIEndpoint))
			}
			api, err := youtube.NewAPIStats(ctx, cfg.YouTube.APIKey, apiOpts...)
			if err != nil {
				log.Warn().Err(err).Msg("YouTube statistics disabled")
			} else {
				stats = api
			}
		}
		for _, src := range youtube.NewMultiple(cfg.YouTube, stats, httpc(ratelimit.LimiterYouTube), log) {
			m.Register(src)
		}
	}
	return m
}

// BuildCategorizer returns the AI categorizer when it is selected and has a key,
// the keyword categorizer otherwise
func BuildCategorizer(cfg *config.Config, store cache.Store, limiter *ratelimit.MultiLimiter, log *logger.Logger) categorize.Categorizer {
	if cfg.Categorizer.Provider != ProviderAI || cfg.Anthropic.APIKey == "" {
		return categorize.NewKeyword()
	}
	client := ai.NewClient(cfg.Anthropic, limiter, log)
	return categorize.NewAI(client, store, cfg.Categorizer.MaxAIPerCycle, log)
}
