package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contenthub/internal/categorize"
	"github.com/contenthub/internal/config"
	"github.com/contenthub/internal/feed"
	"github.com/contenthub/internal/models"
	"github.com/contenthub/pkg/logger"
	"github.com/contenthub/pkg/ratelimit"
)

const testFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Platform Engineering Weekly</title>
<item>
  <title>Running Postgres on Kubernetes without tears</title>
  <link>https://platform.example/postgres-k8s</link>
  <description>Operators, backups and failover in practice.</description>
  <pubDate>Mon, 15 Jan 2024 09:00:00 +0000</pubDate>
</item>
</channel></rss>`

func testConfig(feedURL string) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{DSN: ":memory:"},
		Cache:    config.CacheConfig{Driver: "memory", TTLSeconds: 60},
		Sources: config.SourcesConfig{
			FetchTimeout: 5 * time.Second,
			Concurrency:  2,
			RSS: config.RSSConfig{
				Enabled: true,
				Feeds:   []config.FeedSpec{{Name: "Platform Weekly", URL: feedURL, Group: "tech"}},
			},
			Scrape:  config.ScrapeConfig{Enabled: false},
			Reddit:  config.RedditConfig{Enabled: true, BaseURL: feedURL, Subreddits: []string{"golang", "rust"}},
			YouTube: config.YouTubeConfig{Enabled: true, BaseURL: feedURL, Channels: []string{"UC123"}},
		},
		Feed:        config.FeedConfig{DefaultPageSize: 20, MaxPageSize: 100, MinQualityScore: 0.4},
		Categorizer: config.CategorizerConfig{Provider: ProviderKeyword},
	}
}

func TestNewWiresEnabledSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/feed.xml" {
			_, _ = w.Write([]byte(testFeed))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	a, err := New(context.Background(), testConfig(srv.URL+"/feed.xml"), logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.Len(t, a.Sources.GetSources(), 4)
	assert.Len(t, a.Sources.GetSourcesByType(models.ArticleTypeReddit), 2)
	assert.NotNil(t, a.Sources.GetSourceByName("youtube/UC123"))

	// reddit and youtube point at paths that 404; the feed still serves the RSS article
	page, err := a.Feed.GetFeed(context.Background(), feed.Query{})
	require.NoError(t, err)
	require.Len(t, page.Articles, 1)
	assert.Equal(t, "https://platform.example/postgres-k8s", page.Articles[0].Link)

	sources, err := a.Repo.ListSources(context.Background())
	require.NoError(t, err)
	assert.Len(t, sources, 4, "every attempt is recorded")
}

func TestBuildCategorizer(t *testing.T) {
	cfg := &config.Config{Categorizer: config.CategorizerConfig{Provider: ProviderAI}}
	limiter := ratelimit.NewDefaultLimiter()

	_, keyword := BuildCategorizer(cfg, nil, limiter, logger.Nop()).(*categorize.Keyword)
	assert.True(t, keyword, "ai without a key falls back to keywords")

	cfg.Anthropic = config.AnthropicConfig{APIKey: "test-key", Model: "claude-sonnet-4-20250514", MaxTokens: 256}
	_, isAI := BuildCategorizer(cfg, nil, limiter, logger.Nop()).(*categorize.AI)
	assert.True(t, isAI)
}
