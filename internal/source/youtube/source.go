// Package youtube reads channel uploads from YouTube's public video feeds.
package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/contenthub/internal/config"
	"github.com/contenthub/internal/models"
	"github.com/contenthub/internal/source"
	"github.com/contenthub/internal/textutil"
	"github.com/contenthub/pkg/logger"
	"github.com/contenthub/pkg/ratelimit"
)

const (
	DefaultBaseURL     = "https://www.youtube.com"
	descriptionPeriods = 3
)

// Source implements ArticleSource for one channel
type Source struct {
	source.Meta
	channelID string
	feedURL   string
	parser    *gofeed.Parser
	http      *source.HTTPClient
	stats     StatsFetcher
	log       *logger.Logger
}

// New creates a source for channelID. stats may be nil.
func New(channelID string, cfg config.YouTubeConfig, stats StatsFetcher, httpc *source.HTTPClient, log *logger.Logger) *Source {
	channelID = strings.TrimSpace(channelID)
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if httpc == nil {
		httpc = source.NewHTTPClient(nil, "", nil, ratelimit.LimiterYouTube)
	}
	if log == nil {
		log = logger.Nop()
	}

	parser := gofeed.NewParser()
	parser.Client = httpc.Client()
	parser.UserAgent = httpc.UserAgent()

	name := "youtube/" + channelID
	return &Source{
		Meta: source.Meta{
			SourceName:   name,
			SourceURL:    base + "/channel/" + channelID,
			Kind:         models.ArticleTypeYouTube,
			QualityTier:  source.ParseTier(cfg.Tier, models.TierStandard),
			ContentGroup: strings.ToLower(cfg.Group),
		},
		channelID: channelID,
		feedURL:   base + "/feeds/videos.xml?channel_id=" + url.QueryEscape(channelID),
		parser:    parser,
		http:      httpc,
		stats:     stats,
		log:       log.WithSource("youtube", name),
	}
}

// NewMultiple creates one source per configured channel
func NewMultiple(cfg config.YouTubeConfig, stats StatsFetcher, httpc *source.HTTPClient, log *logger.Logger) []*Source {
	sources := make([]*Source, 0, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		sources = append(sources, New(ch, cfg, stats, httpc, log))
	}
	return sources
}

// Fetch retrieves the channel's latest videos
func (s *Source) Fetch(ctx context.Context) ([]models.Article, error) {
	if err := s.http.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YouTube feed %s: %w", s.channelID, err)
	}

	channel := strings.TrimSpace(feed.Title)
	if channel == "" {
		channel = s.channelID
	}

	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		title := textutil.CleanHTML(item.Title)
		if title == "" {
			title = "No Title"
		}

		publishedAt := ""
		if item.PublishedParsed != nil {
			publishedAt = models.FormatPublished(*item.PublishedParsed)
		} else if item.UpdatedParsed != nil {
			publishedAt = models.FormatPublished(*item.UpdatedParsed)
		}

		articles = append(articles, models.Article{
			Title:      title,
			Link:       link,
			Summary:    textutil.TruncateAfterPeriod(textutil.CleanHTML(description(item)), descriptionPeriods),
			Source:     channel,
			Published:  publishedAt,
			Type:       models.ArticleTypeYouTube,
			SourceTier: s.QualityTier,
			Metadata: models.JSON{
				"channel_id": s.channelID,
				"video_id":   extensionValue(item.Extensions, "yt", "videoId"),
			},
		})
	}

	s.enrich(ctx, articles)

	s.log.Info().Int("count", len(articles)).Str("channel", channel).Msg("Fetched YouTube videos")
	return articles, nil
}

// enrich attaches view, like and comment counts when a stats fetcher is set.
// Failures leave the articles unchanged.
func (s *Source) enrich(ctx context.Context, articles []models.Article) {
	if s.stats == nil || len(articles) == 0 {
		return
	}

	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		if id, _ := a.Metadata["video_id"].(string); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}

	stats, err := s.stats.VideoStats(ctx, ids)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to fetch video statistics")
		return
	}

	for i := range articles {
		id, _ := articles[i].Metadata["video_id"].(string)
		st, ok := stats[id]
		if !ok {
			continue
		}
		articles[i].Metadata["view_count"] = st.Views
		articles[i].Metadata["like_count"] = st.Likes
		articles[i].Metadata["comment_count"] = st.Comments
	}
}

// description prefers media:group/media:description over the item description
func description(item *gofeed.Item) string {
	if groups := item.Extensions["media"]["group"]; len(groups) > 0 {
		if d := groups[0].Children["description"]; len(d) > 0 && d[0].Value != "" {
			return d[0].Value
		}
	}
	if d := extensionValue(item.Extensions, "media", "description"); d != "" {
		return d
	}
	return item.Description
}

func extensionValue(e ext.Extensions, namespace, name string) string {
	if vals := e[namespace][name]; len(vals) > 0 {
		return strings.TrimSpace(vals[0].Value)
	}
	return ""
}

// HealthCheck verifies the channel feed is accessible
func (s *Source) HealthCheck(ctx context.Context) error {
	if err := s.http.Wait(ctx); err != nil {
		return err
	}
	_, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	return err
}

var _ source.ArticleSource = (*Source)(nil)
