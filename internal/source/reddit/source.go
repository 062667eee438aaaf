// Package reddit reads subreddit hot listings from Reddit's public JSON API.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/contenthub/internal/config"
	"github.com/contenthub/internal/filter"
	"github.com/contenthub/internal/models"
	"github.com/contenthub/internal/source"
	"github.com/contenthub/internal/textutil"
	"github.com/contenthub/pkg/logger"
	"github.com/contenthub/pkg/ratelimit"
)

const (
	DefaultBaseURL = "https://www.reddit.com"
	DefaultLimit   = 25
	permalinkBase  = "https://www.reddit.com"
	summaryRunes   = 200
)

type listing struct {
	Data struct {
		Children []struct {
			Data models.RedditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Source implements ArticleSource for one subreddit
type Source struct {
	source.Meta
	subreddit string
	listURL   string
	filter    *filter.RedditFilter
	http      *source.HTTPClient
	log       *logger.Logger
}

// New creates a source for subreddit
func New(subreddit string, cfg config.RedditConfig, rf *filter.RedditFilter, httpc *source.HTTPClient, log *logger.Logger) *Source {
	subreddit = strings.TrimPrefix(strings.TrimSpace(subreddit), "r/")
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if rf == nil {
		rf = filter.NewRedditFilter()
	}
	if httpc == nil {
		httpc = source.NewHTTPClient(nil, "", nil, ratelimit.LimiterReddit)
	}
	if log == nil {
		log = logger.Nop()
	}

	name := "r/" + subreddit
	return &Source{
		Meta: source.Meta{
			SourceName:   name,
			SourceURL:    base + "/r/" + subreddit,
			Kind:         models.ArticleTypeReddit,
			QualityTier:  source.ParseTier(cfg.Tier, models.TierCommunity),
			ContentGroup: strings.ToLower(cfg.Group),
		},
		subreddit: subreddit,
		listURL:   fmt.Sprintf("%s/r/%s/hot.json?limit=%d", base, subreddit, limit),
		filter:    rf,
		http:      httpc,
		log:       log.WithSource("reddit", name),
	}
}

// NewMultiple creates one source per configured subreddit
func NewMultiple(cfg config.RedditConfig, rf *filter.RedditFilter, httpc *source.HTTPClient, log *logger.Logger) []*Source {
	sources := make([]*Source, 0, len(cfg.Subreddits))
	for _, sub := range cfg.Subreddits {
		sources = append(sources, New(sub, cfg, rf, httpc, log))
	}
	return sources
}

// Fetch retrieves the hot listing, dropping posts the pre-filter rejects
func (s *Source) Fetch(ctx context.Context) ([]models.Article, error) {
	body, err := s.http.Get(ctx, s.listURL)
	if err != nil {
		return nil, err
	}

	var l listing
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, fmt.Errorf("failed to decode r/%s listing: %w", s.subreddit, err)
	}

	articles := make([]models.Article, 0, len(l.Data.Children))
	filtered := 0
	for _, child := range l.Data.Children {
		post := child.Data
		if s.filter.ShouldFilter(post, s.subreddit) {
			filtered++
			continue
		}
		articles = append(articles, s.toArticle(post))
	}

	s.log.Info().
		Int("count", len(articles)).
		Int("filtered", filtered).
		Msg("Fetched Reddit posts")

	return articles, nil
}

func (s *Source) toArticle(post models.RedditPost) models.Article {
	title := strings.TrimSpace(post.Title)
	if title == "" {
		title = "No Title"
	}
	if post.Subreddit == "" {
		post.Subreddit = s.subreddit
	}

	return models.Article{
		Title:      title,
		Link:       permalinkBase + post.Permalink,
		Summary:    textutil.Truncate(strings.TrimSpace(post.Selftext), summaryRunes),
		Source:     s.SourceName,
		Published:  models.FormatPublished(post.Created()),
		Type:       models.ArticleTypeReddit,
		SourceTier: s.QualityTier,
		Metadata:   filter.RedditMetadata(post),
	}
}

// HealthCheck verifies the listing endpoint answers
func (s *Source) HealthCheck(ctx context.Context) error {
	_, err := s.http.Get(ctx, s.listURL)
	return err
}

var _ source.ArticleSource = (*Source)(nil)
