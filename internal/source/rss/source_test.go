package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contenthub/internal/config"
	"github.com/contenthub/internal/models"
	"github.com/contenthub/internal/source"
	"github.com/contenthub/pkg/ratelimit"
)

const hnFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Hacker News: Front Page</title>
  <link>https://news.ycombinator.com/</link>
  <item>
    <title>Show HN: A tiny &amp; fast &lt;b&gt;Go&lt;/b&gt; router</title>
    <link>https://example.com/router</link>
    <description><![CDATA[<p>A router in 300 lines. It has zero allocations. Benchmarks follow.</p><p>Article URL: <a href="https://example.com/router">https://example.com/router</a></p><p>Comments URL: <a href="https://news.ycombinator.com/item?id=1">https://news.ycombinator.com/item?id=1</a></p><p>Points: 120</p><p># Comments: 45</p>]]></description>
    <pubDate>Mon, 15 Jan 2024 10:00:00 +0100</pubDate>
    <guid>https://news.ycombinator.com/item?id=1</guid>
  </item>
  <item>
    <title>Call 0812345678901 now for cheap loans</title>
    <link>https://example.com/spam</link>
    <description>Pinjaman online cepat</description>
  </item>
  <item>
    <title>No link here</title>
    <description>Dropped</description>
  </item>
  <item>
    <title></title>
    <link>https://example.com/untitled</link>
  </item>
</channel>
</rss>`

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchNormalizesItems(t *testing.T) {
	srv := serve(t, hnFeed)
	src := New(config.FeedSpec{Name: "HN", URL: srv.URL, Group: "Tech", Tier: "premium"}, nil, nil)

	articles, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2, "spam and link-less items dropped")

	a := articles[0]
	assert.Equal(t, "Show HN: A tiny & fast Go router", a.Title)
	assert.Equal(t, "https://example.com/router", a.Link)
	assert.Equal(t, "A router in 300 lines. It has zero allocations.", a.Summary)
	assert.Equal(t, "Hacker News", a.Source)
	assert.Equal(t, "2024-01-15T09:00:00Z", a.Published)
	assert.Equal(t, models.ArticleTypeRSS, a.Type)
	assert.Equal(t, models.TierPremium, a.SourceTier)

	assert.Equal(t, defaultTitle, articles[1].Title)
	assert.Empty(t, articles[1].Published)

	assert.Equal(t, "tech", src.Group())
	assert.Equal(t, "HN", src.Name())
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(config.FeedSpec{URL: srv.URL}, nil, nil).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetchMalformed(t *testing.T) {
	srv := serve(t, "<html>not a feed</html>")
	_, err := New(config.FeedSpec{URL: srv.URL}, nil, nil).Fetch(context.Background())
	assert.Error(t, err)
}

func TestHealthCheckWaitsOnLimiter(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(hnFeed))
	}))
	defer srv.Close()

	limiter := ratelimit.NewMultiLimiter()
	limiter.AddLimiter(ratelimit.LimiterRSS, 0.001, 1)
	httpc := source.NewHTTPClient(nil, "", limiter, ratelimit.LimiterRSS)
	src := New(config.FeedSpec{Name: "HN", URL: srv.URL}, httpc, nil)

	require.NoError(t, src.HealthCheck(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, src.HealthCheck(ctx), "budget spent")
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestSourceName(t *testing.T) {
	tests := []struct {
		title, configured, url, want string
	}{
		{"Hacker News: Front Page", "", "", "Hacker News"},
		{"Ars Technica - All content", "", "", "Ars Technica"},
		{"The Verge | Tech", "", "", "The Verge"},
		{"Slashdot is News for Nerds", "", "", "Slashdot"},
		{"The Go Blog", "", "", "The Go Blog"},
		{"", "Configured", "https://blog.example.com/feed", "Configured"},
		{"", "", "https://blog.example.com/feed", "blog.example.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SourceName(tt.title, tt.configured, tt.url), tt.title)
	}
}

func TestCleanSummary(t *testing.T) {
	assert.Equal(t, "", CleanSummary("<p>Points: 3</p><p># Comments: 0</p>"))
	assert.Equal(t, "One. Two!", CleanSummary("<div>One. Two! Three?</div>"))
}

func TestIsSpam(t *testing.T) {
	assert.True(t, IsSpam("Hubungi 081234567890 sekarang"))
	assert.True(t, IsSpam("Situs slot gacor hari ini"))
	assert.False(t, IsSpam("Go 1.22 is released"))
}
