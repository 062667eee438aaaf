package models

import (
	"strings"
	"time"
)

// ArticleType identifies the kind of source an article came from
type ArticleType string

const (
	ArticleTypeRSS     ArticleType = "rss"
	ArticleTypeScrape  ArticleType = "scrape"
	ArticleTypeReddit  ArticleType = "reddit"
	ArticleTypeYouTube ArticleType = "youtube"
)

// Valid reports whether t is one of the known article types
func (t ArticleType) Valid() bool {
	switch t {
	case ArticleTypeRSS, ArticleTypeScrape, ArticleTypeReddit, ArticleTypeYouTube:
		return true
	}
	return false
}

// ContentPreference selects which RSS feed group a feed is built from
type ContentPreference string

const (
	PreferenceTech    ContentPreference = "tech"
	PreferenceGeneral ContentPreference = "general"
	PreferenceBoth    ContentPreference = "both"
)

// Includes reports whether a feed group is part of this preference.
// Sources without a group are always included.
func (p ContentPreference) Includes(group string) bool {
	if group == "" || p == "" || p == PreferenceBoth {
		return true
	}
	return strings.EqualFold(string(p), group)
}

// Article is the normalized unit every fetcher produces.
// It is transient: articles live in the feed cache, never in the database.
type Article struct {
	Title        string          `json:"title"`
	Link         string          `json:"link"`
	Summary      string          `json:"summary"`
	Source       string          `json:"source"`
	Published    string          `json:"published"`
	Type         ArticleType     `json:"type"`
	Categories   []string        `json:"categories,omitempty"`
	Tags         []ArticleTag    `json:"tags,omitempty"`
	QualityScore float64         `json:"quality_score,omitempty"`
	Metadata     JSON            `json:"metadata,omitempty"`
	SourceTier   QualityTier     `json:"source_tier,omitempty"`
	Breakdown    *ScoreBreakdown `json:"quality_breakdown,omitempty"`
}

// ArticleTag is a tag attached to an article by the tag matcher
type ArticleTag struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// TagIDs returns the IDs of the tags attached to the article
func (a *Article) TagIDs() []uint {
	ids := make([]uint, 0, len(a.Tags))
	for _, t := range a.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// PublishedAt parses the published timestamp
func (a *Article) PublishedAt() (time.Time, bool) {
	return ParsePublished(a.Published)
}

// ScoreBreakdown holds the per-signal components of a quality score
type ScoreBreakdown struct {
	Source     float64 `json:"source"`
	Content    float64 `json:"content"`
	Freshness  float64 `json:"freshness"`
	Engagement float64 `json:"engagement"`
	Relevance  float64 `json:"relevance"`
}

// Engagement holds aggregate user activity for one article link
type Engagement struct {
	Reads      int `json:"reads"`
	Bookmarks  int `json:"bookmarks"`
	Helpful    int `json:"helpful"`
	NotHelpful int `json:"not_helpful"`
	Spam       int `json:"spam"`
	LowQuality int `json:"low_quality"`
}

// Negative is the sum of all negative feedback
func (e Engagement) Negative() int {
	return e.NotHelpful + e.Spam + e.LowQuality
}

var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
}

// ParsePublished parses an ISO-8601 style timestamp.
// Timestamps without a zone are taken as UTC. Returns false for empty or unparseable input.
func ParsePublished(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatPublished renders a timestamp the way articles store it
func FormatPublished(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// RedditPost is the subset of a Reddit listing child the pipeline reads
type RedditPost struct {
	Title               string  `json:"title"`
	Permalink           string  `json:"permalink"`
	URL                 string  `json:"url"`
	Selftext            string  `json:"selftext"`
	Author              string  `json:"author"`
	Subreddit           string  `json:"subreddit"`
	Score               int     `json:"score"`
	NumComments         int     `json:"num_comments"`
	TotalAwardsReceived int     `json:"total_awards_received"`
	CreatedUTC          float64 `json:"created_utc"`
	UpvoteRatio         float64 `json:"upvote_ratio"`
	IsSelf              bool    `json:"is_self"`
	Stickied            bool    `json:"stickied"`
	Over18              bool    `json:"over_18"`
	Spoiler             bool    `json:"spoiler"`
}

// Created returns the post creation time, zero when unknown
func (p RedditPost) Created() time.Time {
	if p.CreatedUTC <= 0 {
		return time.Time{}
	}
	sec := int64(p.CreatedUTC)
	return time.Unix(sec, 0).UTC()
}
