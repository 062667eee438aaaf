package filter

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/contenthub/internal/models"
)

// Threshold is the minimum engagement a post needs to be kept
type Threshold struct {
	MinScore    int
	MinComments int
}

// Reddit pre-filter defaults
const (
	DefaultRedditMinScore    = 50
	DefaultRedditMinComments = 10
	DefaultRedditMaxAge      = 48 * time.Hour

	selfPostScoreFactor = 1.5
)

// DefaultSubredditThresholds are per-subreddit overrides keyed by lowercase name
var DefaultSubredditThresholds = map[string]Threshold{
	"programming":     {MinScore: 100, MinComments: 20},
	"python":          {MinScore: 75, MinComments: 15},
	"javascript":      {MinScore: 75, MinComments: 15},
	"webdev":          {MinScore: 60, MinComments: 12},
	"machinelearning": {MinScore: 80, MinComments: 15},
	"datascience":     {MinScore: 60, MinComments: 12},
	"devops":          {MinScore: 50, MinComments: 10},
	"cybersecurity":   {MinScore: 50, MinComments: 10},
}

var lowEffortPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(TIL|DAE|ELI5)`),
	regexp.MustCompile(`(?i)(meme|shitpost)`),
	regexp.MustCompile(`(?i)^\[.*\]$`),
}

// RedditFilter decides which Reddit posts are worth turning into articles
type RedditFilter struct {
	Default    Threshold
	Subreddits map[string]Threshold
	MaxAge     time.Duration
	Now        func() time.Time
}

// NewRedditFilter creates a filter with the default thresholds
func NewRedditFilter() *RedditFilter {
	return &RedditFilter{
		Default:    Threshold{MinScore: DefaultRedditMinScore, MinComments: DefaultRedditMinComments},
		Subreddits: DefaultSubredditThresholds,
		MaxAge:     DefaultRedditMaxAge,
		Now:        time.Now,
	}
}

// ThresholdFor returns the thresholds that apply to a subreddit
func (f *RedditFilter) ThresholdFor(subreddit string) Threshold {
	if t, ok := f.Subreddits[strings.ToLower(subreddit)]; ok {
		return t
	}
	return f.Default
}

// ShouldFilter reports whether a post must be dropped
func (f *RedditFilter) ShouldFilter(post models.RedditPost, subreddit string) bool {
	th := f.ThresholdFor(subreddit)

	if post.Score < th.MinScore || post.NumComments < th.MinComments {
		return true
	}

	if created := post.Created(); !created.IsZero() && f.MaxAge > 0 {
		if f.now().Sub(created) > f.MaxAge {
			return true
		}
	}

	if post.Stickied || post.Over18 || post.Spoiler {
		return true
	}

	if post.Author == "[deleted]" || post.Author == "[removed]" {
		return true
	}

	if IsLowEffortTitle(post.Title) {
		return true
	}

	// Self posts need more traction than link posts
	if post.IsSelf && float64(post.Score) < float64(th.MinScore)*selfPostScoreFactor {
		return true
	}

	return false
}

func (f *RedditFilter) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// IsLowEffortTitle matches TIL/DAE/ELI5 prefixes, meme posts and bracket-only titles
func IsLowEffortTitle(title string) bool {
	for _, p := range lowEffortPatterns {
		if p.MatchString(title) {
			return true
		}
	}
	return false
}

// RedditQualityScore rates a post from its votes, comments and awards
func RedditQualityScore(post models.RedditPost) float64 {
	scoreNorm := math.Min(float64(post.Score)/1000, 1)
	commentNorm := math.Min(float64(post.NumComments)/100, 1)
	awardNorm := math.Min(float64(post.TotalAwardsReceived)/10, 1)
	engagement := math.Min(float64(post.NumComments+post.TotalAwardsReceived*5)/200, 1)

	q := scoreNorm*0.4 + commentNorm*0.3 + awardNorm*0.2 + engagement*0.1
	return math.Round(q*1000) / 1000
}

// RedditMetadata flattens the post fields kept on a Reddit article
func RedditMetadata(post models.RedditPost) models.JSON {
	return models.JSON{
		"score":                 post.Score,
		"num_comments":          post.NumComments,
		"total_awards_received": post.TotalAwardsReceived,
		"created_utc":           post.CreatedUTC,
		"subreddit":             post.Subreddit,
		"author":                post.Author,
		"is_self":               post.IsSelf,
		"stickied":              post.Stickied,
		"over_18":               post.Over18,
		"spoiler":               post.Spoiler,
		"upvote_ratio":          post.UpvoteRatio,
		"permalink":             post.Permalink,
		"reddit_quality_score":  RedditQualityScore(post),
		"engagement": map[string]int{
			"upvotes":  post.Score,
			"comments": post.NumComments,
			"awards":   post.TotalAwardsReceived,
		},
	}
}
