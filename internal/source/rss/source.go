package rss

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/contenthub/internal/config"
	"github.com/contenthub/internal/models"
	"github.com/contenthub/internal/source"
	"github.com/contenthub/internal/textutil"
	"github.com/contenthub/pkg/logger"
	"github.com/contenthub/pkg/ratelimit"
)

const (
	summarySentences = 2
	defaultTitle     = "No Title"
)

var (
	// Aggregator feeds (hnrss and friends) put bookkeeping lines in the description
	metadataLines = regexp.MustCompile(`(?im)^\s*(Article URL|Comments URL|Points|# Comments):.*$`)

	spamPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{10,}`),
		regexp.MustCompile(`(?i)\b(slot\s*gacor|gacor|togel|judi|maxwin|bandar\s+bola|pinjol|pinjaman\s+online|sabung\s+ayam|pautang|sugal|casino\s+online)\b`),
	}

	nameSeparators = []string{":", " - ", " | ", " is "}
)

// Source implements ArticleSource for RSS and Atom feeds
type Source struct {
	source.Meta
	configuredName string
	parser         *gofeed.Parser
	http           *source.HTTPClient
	log            *logger.Logger
}

// New creates a new RSS source for a single feed
func New(feed config.FeedSpec, httpc *source.HTTPClient, log *logger.Logger) *Source {
	if httpc == nil {
		httpc = source.NewHTTPClient(nil, "", nil, ratelimit.LimiterRSS)
	}
	if log == nil {
		log = logger.Nop()
	}

	name := feed.Name
	if name == "" {
		name = feed.URL
	}

	parser := gofeed.NewParser()
	parser.Client = httpc.Client()
	parser.UserAgent = httpc.UserAgent()

	return &Source{
		Meta: source.Meta{
			SourceName:   name,
			SourceURL:    feed.URL,
			Kind:         models.ArticleTypeRSS,
			QualityTier:  source.ParseTier(feed.Tier, models.TierStandard),
			ContentGroup: strings.ToLower(feed.Group),
		},
		configuredName: feed.Name,
		parser:         parser,
		http:           httpc,
		log:            log.WithSource("rss", name),
	}
}

// NewMultiple creates multiple RSS sources from config
func NewMultiple(cfg config.RSSConfig, httpc *source.HTTPClient, log *logger.Logger) []*Source {
	sources := make([]*Source, 0, len(cfg.Feeds))
	for _, feed := range cfg.Feeds {
		sources = append(sources, New(feed, httpc, log))
	}
	return sources
}

// Fetch retrieves articles from the feed
func (s *Source) Fetch(ctx context.Context) ([]models.Article, error) {
	s.log.Debug().Str("url", s.SourceURL).Msg("Fetching RSS feed")

	if err := s.http.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := s.parser.ParseURLWithContext(s.SourceURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed %s: %w", s.SourceName, err)
	}

	sourceName := SourceName(feed.Title, s.configuredName, s.SourceURL)

	articles := make([]models.Article, 0, len(feed.Items))
	spam := 0
	for _, item := range feed.Items {
		article, ok := s.toArticle(item, sourceName)
		if !ok {
			continue
		}
		if IsSpam(article.Title + " " + article.Summary) {
			spam++
			continue
		}
		articles = append(articles, article)
	}

	s.log.Info().
		Int("count", len(articles)).
		Int("spam", spam).
		Str("feed", sourceName).
		Msg("Fetched RSS articles")

	return articles, nil
}

func (s *Source) toArticle(item *gofeed.Item, sourceName string) (models.Article, bool) {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		return models.Article{}, false
	}

	title := textutil.CleanHTML(item.Title)
	if title == "" {
		title = defaultTitle
	}

	raw := item.Description
	if raw == "" {
		raw = item.Content
	}

	metadata := models.JSON{}
	if item.GUID != "" {
		metadata["guid"] = item.GUID
	}
	if item.Author != nil && item.Author.Name != "" {
		metadata["author"] = item.Author.Name
	}
	if len(item.Categories) > 0 {
		metadata["feed_categories"] = item.Categories
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	return models.Article{
		Title:      title,
		Link:       link,
		Summary:    CleanSummary(raw),
		Source:     sourceName,
		Published:  published(item),
		Type:       models.ArticleTypeRSS,
		SourceTier: s.QualityTier,
		Metadata:   metadata,
	}, true
}

// HealthCheck verifies the RSS feed is accessible
func (s *Source) HealthCheck(ctx context.Context) error {
	if err := s.http.Wait(ctx); err != nil {
		return err
	}
	_, err := s.parser.ParseURLWithContext(s.SourceURL, ctx)
	return err
}

// CleanSummary turns a feed description into at most two plain sentences
func CleanSummary(raw string) string {
	text := textutil.StripHTML(raw)
	text = metadataLines.ReplaceAllString(text, "")
	text = textutil.CollapseWhitespace(text)
	return textutil.FirstSentences(text, summarySentences)
}

// SourceName derives a display name from the feed title: the text before
// the first separator. Falls back to the configured name, then the host.
func SourceName(feedTitle, configured, feedURL string) string {
	title := textutil.CleanHTML(feedTitle)
	cut := len(title)
	for _, sep := range nameSeparators {
		if i := strings.Index(title, sep); i > 0 && i < cut {
			cut = i
		}
	}
	if name := strings.TrimSpace(title[:cut]); name != "" {
		return name
	}
	if configured != "" {
		return configured
	}
	if u, err := url.Parse(feedURL); err == nil && u.Host != "" {
		return u.Host
	}
	return feedURL
}

// IsSpam reports whether text matches a feed spam pattern
func IsSpam(text string) bool {
	for _, p := range spamPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func published(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return models.FormatPublished(*item.PublishedParsed)
	case item.UpdatedParsed != nil:
		return models.FormatPublished(*item.UpdatedParsed)
	}
	for _, raw := range []string{item.Published, item.Updated} {
		if t, ok := models.ParsePublished(raw); ok {
			return models.FormatPublished(t)
		}
	}
	return ""
}

// Ensure Source implements source.ArticleSource
var _ source.ArticleSource = (*Source)(nil)
