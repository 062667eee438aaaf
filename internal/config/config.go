package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/contenthub/pkg/ratelimit"
)

// Config represents the application configuration
type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Sources     SourcesConfig     `mapstructure:"sources"`
	Feed        FeedConfig        `mapstructure:"feed"`
	Categorizer CategorizerConfig `mapstructure:"categorizer"`
	Anthropic   AnthropicConfig   `mapstructure:"anthropic"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"` // sqlite file path, or ":memory:"
}

// CacheConfig holds feed cache settings
type CacheConfig struct {
	Driver        string `mapstructure:"driver"` // redis, memory or none
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	TTLSeconds    int    `mapstructure:"ttl_seconds"`
}

// TTL returns the feed cache TTL
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// SourcesConfig holds all content source configurations
type SourcesConfig struct {
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	Concurrency  int           `mapstructure:"concurrency"`
	UserAgent    string        `mapstructure:"user_agent"`
	RSS          RSSConfig     `mapstructure:"rss"`
	Scrape       ScrapeConfig  `mapstructure:"scrape"`
	Reddit       RedditConfig  `mapstructure:"reddit"`
	YouTube      YouTubeConfig `mapstructure:"youtube"`
}

// RSSConfig holds RSS feed settings
type RSSConfig struct {
	Enabled bool       `mapstructure:"enabled"`
	Feeds   []FeedSpec `mapstructure:"feeds"`
}

// FeedSpec describes one configured feed or page
type FeedSpec struct {
	Name  string `mapstructure:"name"`
	URL   string `mapstructure:"url"`
	Group string `mapstructure:"group"` // tech or general; empty joins every view
	Tier  string `mapstructure:"tier"`  // premium, standard or community
}

// ScrapeConfig holds HTML scraping settings
type ScrapeConfig struct {
	Enabled bool       `mapstructure:"enabled"`
	Targets []FeedSpec `mapstructure:"targets"`
}

// RedditConfig holds Reddit settings
type RedditConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	BaseURL    string   `mapstructure:"base_url"`
	Subreddits []string `mapstructure:"subreddits"`
	Limit      int      `mapstructure:"limit"`
	Group      string   `mapstructure:"group"`
	Tier       string   `mapstructure:"tier"`
}

// YouTubeConfig holds YouTube channel feed settings
type YouTubeConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	BaseURL  string   `mapstructure:"base_url"`
	Channels []string `mapstructure:"channels"`
	Group    string   `mapstructure:"group"`
	Tier     string   `mapstructure:"tier"`
	// Statistics enrichment through the YouTube Data API; skipped without a key
	APIKey      string `mapstructure:"api_key"`
	APIEndpoint string `mapstructure:"api_endpoint"`
}

// FeedConfig holds feed serving settings
type FeedConfig struct {
	DefaultPageSize   int           `mapstructure:"default_page_size"`
	MaxPageSize       int           `mapstructure:"max_page_size"`
	MinQualityScore   float64       `mapstructure:"min_quality_score"`
	MaxArticles       int           `mapstructure:"max_articles"` // 0 keeps everything
	ReadHistoryWindow int           `mapstructure:"read_history_window"`
	ReadHistoryTTL    time.Duration `mapstructure:"read_history_ttl"`
	PopularDays       int           `mapstructure:"popular_days"`
}

// CategorizerConfig selects the categorizer
type CategorizerConfig struct {
	Provider      string `mapstructure:"provider"` // keyword or ai
	MaxAIPerCycle int    `mapstructure:"max_ai_per_cycle"`
}

// AnthropicConfig holds Claude API settings
type AnthropicConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	BaseURL     string  `mapstructure:"base_url"`
}

// SchedulerConfig holds refresh daemon settings
type SchedulerConfig struct {
	RunOnStart bool   `mapstructure:"run_on_start"`
	HealthAddr string `mapstructure:"health_addr"`
}

// RateLimitConfig holds per-upstream request budgets
type RateLimitConfig struct {
	AnthropicPerMinute int `mapstructure:"anthropic_per_minute"`
	RedditPerMinute    int `mapstructure:"reddit_per_minute"`
	RSSPerMinute       int `mapstructure:"rss_per_minute"`
	ScrapePerMinute    int `mapstructure:"scrape_per_minute"`
	YouTubePerMinute   int `mapstructure:"youtube_per_minute"`
}

// Rates converts the budgets for the limiter
func (r RateLimitConfig) Rates() ratelimit.Rates {
	return ratelimit.Rates{
		AnthropicPerMinute: r.AnthropicPerMinute,
		RedditPerMinute:    r.RedditPerMinute,
		RSSPerMinute:       r.RSSPerMinute,
		ScrapePerMinute:    r.ScrapePerMinute,
		YouTubePerMinute:   r.YouTubePerMinute,
	}
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout, stderr or file path
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if present (ignore errors if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".contenthub"))
		}
	}

	v.SetEnvPrefix("CONTENTHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit bindings for nested keys (Viper doesn't auto-bind keys absent from defaults)
	v.BindEnv("anthropic.api_key", "CONTENTHUB_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	v.BindEnv("cache.redis_addr", "CONTENTHUB_CACHE_REDIS_ADDR", "REDIS_ADDR")
	v.BindEnv("cache.redis_password", "CONTENTHUB_CACHE_REDIS_PASSWORD", "REDIS_PASSWORD")
	v.BindEnv("cache.ttl_seconds", "CONTENTHUB_CACHE_TTL_SECONDS", "CACHE_TTL")
	v.BindEnv("database.dsn", "CONTENTHUB_DATABASE_DSN", "DATABASE_URL")
	v.BindEnv("sources.youtube.api_key", "CONTENTHUB_SOURCES_YOUTUBE_API_KEY", "YOUTUBE_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.applyLegacyEnv(os.Getenv)

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.dsn", "./data/contenthub.db")

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl_seconds", 900)

	v.SetDefault("sources.fetch_timeout", "10s")
	v.SetDefault("sources.concurrency", 10)
	v.SetDefault("sources.user_agent", "Mozilla/5.0 (compatible; ContentHub/1.0)")

	v.SetDefault("sources.rss.enabled", true)
	v.SetDefault("sources.rss.feeds", []map[string]string{
		{"name": "Hacker News", "url": "https://hnrss.org/frontpage", "group": "tech", "tier": "standard"},
		{"name": "The Go Blog", "url": "https://go.dev/blog/feed.atom", "group": "tech", "tier": "premium"},
		{"name": "Ars Technica", "url": "https://feeds.arstechnica.com/arstechnica/index", "group": "general", "tier": "premium"},
	})

	v.SetDefault("sources.scrape.enabled", true)
	v.SetDefault("sources.scrape.targets", []map[string]string{
		{"name": "Techmeme", "url": "https://www.techmeme.com", "group": "tech", "tier": "standard"},
	})

	v.SetDefault("sources.reddit.enabled", false)
	v.SetDefault("sources.reddit.base_url", "https://www.reddit.com")
	v.SetDefault("sources.reddit.subreddits", []string{"programming", "golang"})
	v.SetDefault("sources.reddit.limit", 25)
	v.SetDefault("sources.reddit.group", "tech")
	v.SetDefault("sources.reddit.tier", "community")

	v.SetDefault("sources.youtube.enabled", false)
	v.SetDefault("sources.youtube.base_url", "https://www.youtube.com")
	v.SetDefault("sources.youtube.group", "tech")
	v.SetDefault("sources.youtube.tier", "standard")

	v.SetDefault("feed.default_page_size", 20)
	v.SetDefault("feed.max_page_size", 100)
	v.SetDefault("feed.min_quality_score", 0.4)
	v.SetDefault("feed.max_articles", 0)
	v.SetDefault("feed.read_history_window", 1000)
	v.SetDefault("feed.read_history_ttl", "60s")
	v.SetDefault("feed.popular_days", 7)

	v.SetDefault("categorizer.provider", "keyword")
	v.SetDefault("categorizer.max_ai_per_cycle", 20)

	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 256)
	v.SetDefault("anthropic.temperature", 0.0)

	v.SetDefault("scheduler.run_on_start", true)
	v.SetDefault("scheduler.health_addr", ":10000")

	v.SetDefault("rate_limit.anthropic_per_minute", 10)
	v.SetDefault("rate_limit.reddit_per_minute", 60)
	v.SetDefault("rate_limit.rss_per_minute", 120)
	v.SetDefault("rate_limit.scrape_per_minute", 30)
	v.SetDefault("rate_limit.youtube_per_minute", 60)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")
}

// applyLegacyEnv merges the comma-separated list variables used by older
// deployments. URLs already configured are not added twice.
func (c *Config) applyLegacyEnv(getenv func(string) string) {
	for _, u := range splitList(getenv("RSS_FEEDS")) {
		if !hasURL(c.Sources.RSS.Feeds, u) {
			c.Sources.RSS.Feeds = append(c.Sources.RSS.Feeds, FeedSpec{URL: u})
		}
	}
	for _, u := range splitList(getenv("SCRAPE_URLS")) {
		if !hasURL(c.Sources.Scrape.Targets, u) {
			c.Sources.Scrape.Targets = append(c.Sources.Scrape.Targets, FeedSpec{URL: u})
		}
	}
	if subs := splitList(getenv("REDDIT_SUBREDDITS")); len(subs) > 0 {
		c.Sources.Reddit.Subreddits = subs
		c.Sources.Reddit.Enabled = true
	}
	if channels := splitList(getenv("YOUTUBE_CHANNELS")); len(channels) > 0 {
		c.Sources.YouTube.Channels = channels
		c.Sources.YouTube.Enabled = true
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func hasURL(specs []FeedSpec, url string) bool {
	for _, s := range specs {
		if s.URL == url {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if c.Cache.TTLSeconds <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl_seconds must be positive"))
	}
	switch c.Cache.Driver {
	case "redis", "memory", "none", "":
	default:
		errs = append(errs, fmt.Errorf("cache.driver %q is not one of redis, memory, none", c.Cache.Driver))
	}
	if c.Feed.MaxPageSize < 1 {
		errs = append(errs, fmt.Errorf("feed.max_page_size must be at least 1"))
	}
	if c.Feed.DefaultPageSize < 1 || c.Feed.DefaultPageSize > c.Feed.MaxPageSize {
		errs = append(errs, fmt.Errorf("feed.default_page_size must be between 1 and feed.max_page_size"))
	}
	if c.Feed.MinQualityScore < 0 || c.Feed.MinQualityScore > 1 {
		errs = append(errs, fmt.Errorf("feed.min_quality_score must be within [0, 1]"))
	}
	if c.Sources.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("sources.concurrency must be at least 1"))
	}
	if c.Sources.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("sources.fetch_timeout must be positive"))
	}
	for _, f := range append(append([]FeedSpec{}, c.Sources.RSS.Feeds...), c.Sources.Scrape.Targets...) {
		if f.URL == "" {
			errs = append(errs, fmt.Errorf("source %q has no url", f.Name))
		}
	}
	switch c.Categorizer.Provider {
	case "keyword", "":
	case "ai":
		if c.Anthropic.APIKey == "" {
			errs = append(errs, fmt.Errorf("anthropic.api_key is required for the ai categorizer"))
		}
	default:
		errs = append(errs, fmt.Errorf("categorizer.provider %q is not one of keyword, ai", c.Categorizer.Provider))
	}

	return errors.Join(errs...)
}
