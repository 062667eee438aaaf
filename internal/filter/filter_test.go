package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/contenthub/internal/models"
)

func TestIsExplicit(t *testing.T) {
	assert.True(t, IsExplicit("Best NSFW subreddits of the year"))
	assert.False(t, IsExplicit("Sussex university spins out a startup"), "keywords match whole words only")
	assert.False(t, IsExplicit("Adulting 101 for engineers"))
}

func TestIsNonEnglish(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"english", "Go 1.22 ships with improved loop variable semantics", false},
		{"cyrillic", "Новая версия Go вышла", true},
		{"cjk", "Rust 入門 guide", true},
		{"spanish stopwords", "La computación en la nube está transformando el mundo", true},
		{"portuguese accents", "Visão de negócio: faça a gestão da informação", true},
		{"too short for ratio", "de la", false},
		{"single accent", "Café culture at the office", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsNonEnglish(tc.text))
		})
	}
}

func TestContentFilterKeepsOrder(t *testing.T) {
	f := NewContentFilter(nil)
	in := []models.Article{
		{Title: "Kubernetes 1.30 released", Link: "a"},
		{Title: "Hot singles dating near you", Link: "b"},
		{Title: "Новости технологий", Link: "c"},
		{Title: "PostgreSQL tuning tips", Summary: "Indexes and vacuum explained.", Link: "d"},
	}

	out := f.Filter(in)

	if assert.Len(t, out, 2) {
		assert.Equal(t, "a", out[0].Link)
		assert.Equal(t, "d", out[1].Link)
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
}

func goodPost() models.RedditPost {
	return models.RedditPost{
		Title:       "A deep dive into the Go scheduler",
		Author:      "gopher",
		Score:       500,
		NumComments: 80,
		CreatedUTC:  float64(fixedNow().Add(-2 * time.Hour).Unix()),
	}
}

func TestRedditFilter(t *testing.T) {
	f := NewRedditFilter()
	f.Now = fixedNow

	tests := []struct {
		name      string
		mutate    func(p *models.RedditPost)
		subreddit string
		want      bool
	}{
		{"good post", func(p *models.RedditPost) {}, "golang", false},
		{"stickied", func(p *models.RedditPost) { p.Stickied = true }, "golang", true},
		{"nsfw", func(p *models.RedditPost) { p.Over18 = true }, "golang", true},
		{"spoiler", func(p *models.RedditPost) { p.Spoiler = true }, "golang", true},
		{"deleted author", func(p *models.RedditPost) { p.Author = "[deleted]" }, "golang", true},
		{"removed author", func(p *models.RedditPost) { p.Author = "[removed]" }, "golang", true},
		{"low score", func(p *models.RedditPost) { p.Score = 49 }, "golang", true},
		{"few comments", func(p *models.RedditPost) { p.NumComments = 9 }, "golang", true},
		{"too old", func(p *models.RedditPost) { p.CreatedUTC = float64(fixedNow().Add(-49 * time.Hour).Unix()) }, "golang", true},
		{"til prefix", func(p *models.RedditPost) { p.Title = "TIL goroutines are cheap" }, "golang", true},
		{"meme", func(p *models.RedditPost) { p.Title = "Monday meme dump" }, "golang", true},
		{"bracket only", func(p *models.RedditPost) { p.Title = "[Discussion]" }, "golang", true},
		{"self post below 1.5x", func(p *models.RedditPost) { p.IsSelf = true; p.Score = 60 }, "golang", true},
		{"self post above 1.5x", func(p *models.RedditPost) { p.IsSelf = true; p.Score = 75 }, "golang", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := goodPost()
			tc.mutate(&p)
			assert.Equal(t, tc.want, f.ShouldFilter(p, tc.subreddit))
		})
	}
}

func TestRedditFilterSubredditThreshold(t *testing.T) {
	f := NewRedditFilter()
	f.Now = fixedNow

	p := goodPost()
	p.Score = 80
	p.NumComments = 25

	assert.True(t, f.ShouldFilter(p, "programming"), "programming requires 100 points")
	assert.True(t, f.ShouldFilter(p, "Programming"), "subreddit lookup is case-insensitive")
	assert.False(t, f.ShouldFilter(p, "golang"), "default threshold is 50/10")
}

func TestRedditQualityScore(t *testing.T) {
	p := models.RedditPost{Score: 500, NumComments: 50, TotalAwardsReceived: 2}
	// 0.5*0.4 + 0.5*0.3 + 0.2*0.2 + (60/200)*0.1
	assert.InDelta(t, 0.42, RedditQualityScore(p), 1e-9)

	capped := models.RedditPost{Score: 50000, NumComments: 5000, TotalAwardsReceived: 100}
	assert.InDelta(t, 1.0, RedditQualityScore(capped), 1e-9)
}

func TestRedditMetadata(t *testing.T) {
	p := goodPost()
	p.Subreddit = "golang"
	md := RedditMetadata(p)

	assert.Equal(t, 500, md.Int("score"))
	assert.Equal(t, 80, md.Int("num_comments"))
	assert.Equal(t, "golang", md.String("subreddit"))
	assert.Contains(t, md, "reddit_quality_score")
}
