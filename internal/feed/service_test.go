package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contenthub/internal/cache"
	"github.com/contenthub/internal/config"
	"github.com/contenthub/internal/models"
	"github.com/contenthub/internal/quality"
	"github.com/contenthub/internal/search"
	"github.com/contenthub/internal/source"
	"github.com/contenthub/internal/source/rss"
	"github.com/contenthub/internal/source/scrape"
)

var fixedNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

type stubSource struct {
	source.Meta
	articles []models.Article
	err      error
	calls    int32
}

func (s *stubSource) Fetch(context.Context) ([]models.Article, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Article, len(s.articles))
	copy(out, s.articles)
	return out, nil
}

func (s *stubSource) HealthCheck(context.Context) error { return s.err }

func stub(name string, kind models.ArticleType, group string, articles ...models.Article) *stubSource {
	for i := range articles {
		articles[i].Type = kind
		if articles[i].Source == "" {
			articles[i].Source = name
		}
	}
	return &stubSource{
		Meta:     source.Meta{SourceName: name, Kind: kind, QualityTier: models.TierStandard, ContentGroup: group},
		articles: articles,
	}
}

func article(link, title, published string) models.Article {
	return models.Article{Link: link, Title: title, Published: published}
}

func testConfig() config.FeedConfig {
	return config.FeedConfig{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		MinQualityScore: 0.4,
		ReadHistoryTTL:  time.Minute,
		PopularDays:     7,
	}
}

func newService(t *testing.T, store cache.Store, sources ...source.ArticleSource) *Service {
	t.Helper()
	m := source.NewManager()
	m.Register(sources...)
	return NewService(m, store, testConfig(), time.Minute, nil, WithScorer(&quality.Scorer{Now: func() time.Time { return fixedNow }}))
}

const feedA = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Go Weekly: news for gophers</title>
<link>https://goweekly.example</link>
<item>
  <title>Go 1.22 released with range over integers</title>
  <link>https://goweekly.example/go-1-22</link>
  <description>&lt;p&gt;The Go team shipped a new release. It brings loop variable changes. More inside.&lt;/p&gt;</description>
  <pubDate>Mon, 15 Jan 2024 09:00:00 +0000</pubDate>
</item>
</channel></rss>`

const feedB = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Rust Blog</title>
<link>https://rust.example</link>
<item>
  <title>Announcing Rust 1.75 with async functions in traits</title>
  <link>https://rust.example/1-75</link>
  <description>The Rust team is happy to announce a new version.</description>
  <pubDate>Sun, 14 Jan 2024 09:00:00 +0000</pubDate>
</item>
</channel></rss>`

const scrapePage = `<html><body>
<article><h2><a href="/story/kubernetes-1-29">Kubernetes 1.29 brings sidecar containers to beta</a></h2></article>
</body></html>`

func TestRefreshEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a.xml":
			_, _ = w.Write([]byte(feedA))
		case "/b.xml":
			_, _ = w.Write([]byte(feedB))
		case "/news":
			_, _ = w.Write([]byte(scrapePage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	scraper, err := scrape.New(config.FeedSpec{Name: "Tech News", URL: srv.URL + "/news"}, nil, nil)
	require.NoError(t, err)

	svc := newService(t, cache.NewMemoryStore(),
		rss.New(config.FeedSpec{Name: "Go Weekly", URL: srv.URL + "/a.xml", Group: "tech", Tier: "premium"}, nil, nil),
		rss.New(config.FeedSpec{Name: "Rust", URL: srv.URL + "/b.xml", Group: "tech"}, nil, nil),
		scraper,
	)

	result := svc.Refresh(context.Background())
	assert.Equal(t, 3, result.SourcesFetched)
	assert.Zero(t, result.SourcesFailed)
	assert.Equal(t, 3, result.ArticlesKept)
	assert.Equal(t, len(Views()), result.ViewsWritten)

	page, err := svc.GetFeed(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, page.Articles, 3)

	// scraped headlines are stamped with the fetch time, so they sort first
	assert.Equal(t, models.ArticleTypeScrape, page.Articles[0].Type)
	assert.Equal(t, srv.URL+"/story/kubernetes-1-29", page.Articles[0].Link)
	assert.Equal(t, "https://goweekly.example/go-1-22", page.Articles[1].Link)
	assert.Equal(t, "https://rust.example/1-75", page.Articles[2].Link)

	assert.Equal(t, "Go Weekly", page.Articles[1].Source)
	assert.Equal(t, models.TierPremium, page.Articles[1].SourceTier)
	for _, a := range page.Articles {
		assert.Greater(t, a.QualityScore, 0.0, a.Link)
		assert.LessOrEqual(t, a.QualityScore, 1.0, a.Link)
		assert.NotNil(t, a.Breakdown, a.Link)
		assert.NotEmpty(t, a.Categories, a.Link)
	}
	assert.Equal(t, 3, page.Pagination.TotalItems)
}

func TestGetFeedServesCachedViews(t *testing.T) {
	src := stub("Blog", models.ArticleTypeRSS, "tech",
		article("https://blog.example/1", "Profiling Go services in production", "2024-01-15T10:00:00Z"))
	svc := newService(t, cache.NewMemoryStore(), src)
	ctx := context.Background()

	page, err := svc.GetFeed(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, page.Articles, 1)
	assert.EqualValues(t, 1, atomic.LoadInt32(&src.calls))

	// the miss refreshed every view, so other views are hits too
	_, err = svc.GetFeed(ctx, Query{SourceFilter: models.ArticleTypeRSS, QualityFilter: true})
	require.NoError(t, err)
	_, err = svc.GetFeed(ctx, Query{Preference: models.PreferenceTech})
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&src.calls))
}

func TestGetFeedWithoutCache(t *testing.T) {
	src := stub("Blog", models.ArticleTypeRSS, "",
		article("https://blog.example/1", "Profiling Go services in production", "2024-01-15T10:00:00Z"))
	svc := newService(t, cache.Noop{}, src)

	for i := 0; i < 2; i++ {
		page, err := svc.GetFeed(context.Background(), Query{})
		require.NoError(t, err)
		assert.Len(t, page.Articles, 1)
	}
	assert.EqualValues(t, 2, atomic.LoadInt32(&src.calls))
}

func TestLiveRefreshOutlivesCancelledCaller(t *testing.T) {
	src := stub("Blog", models.ArticleTypeRSS, "",
		article("https://blog.example/1", "Profiling Go services in production", "2024-01-15T10:00:00Z"))
	store := cache.NewMemoryStore()
	svc := newService(t, store, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	articles := svc.Articles(ctx, View{})
	require.Len(t, articles, 1)

	_, cached := store.Get(context.Background(), View{}.Key())
	assert.True(t, cached, "the refresh completed and was cached")
}

func TestGetFeedRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	store := cache.NewRedisStore(rdb, nil)
	mr.Close()

	src := stub("Blog", models.ArticleTypeRSS, "",
		article("https://blog.example/1", "Profiling Go services in production", "2024-01-15T10:00:00Z"))
	svc := newService(t, store, src)
	defer svc.Close()

	page, err := svc.GetFeed(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, page.Articles, 1)
}

func TestGetFeedRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	store := cache.NewRedisStore(cache.NewRedisClient(cache.RedisConfig{Addr: mr.Addr()}), nil)

	src := stub("Blog", models.ArticleTypeRSS, "",
		article("https://blog.example/1", "Profiling Go services in production", "2024-01-15T10:00:00Z"))
	svc := newService(t, store, src)
	defer svc.Close()

	_, err := svc.GetFeed(context.Background(), Query{})
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.FeedKey("", false, "")))
	assert.True(t, mr.Exists(cache.FeedKey(models.ArticleTypeRSS, true, models.PreferenceTech)))

	ttl := mr.TTL(cache.FeedKey("", false, ""))
	assert.Equal(t, time.Minute, ttl)
}

func TestGetFeedAllSourcesDown(t *testing.T) {
	down := stub("down", models.ArticleTypeRSS, "")
	down.err = errors.New("connection refused")
	store := cache.NewMemoryStore()
	svc := newService(t, store, down)

	page, err := svc.GetFeed(context.Background(), Query{})
	require.NoError(t, err)
	assert.Empty(t, page.Articles)
	assert.NotNil(t, page.Articles)
	assert.Equal(t, 0, page.Pagination.TotalItems)

	_, cached := store.Get(context.Background(), cache.FeedKey("", false, ""))
	assert.False(t, cached, "a failed run must not replace the cache")
}

func TestRefreshCountsFailures(t *testing.T) {
	down := stub("down", models.ArticleTypeScrape, "")
	down.err = errors.New("503")
	up := stub("up", models.ArticleTypeRSS, "",
		article("https://up.example/1", "Tracing requests across services", "2024-01-15T10:00:00Z"))

	result := newService(t, cache.NewMemoryStore(), up, down).Refresh(context.Background())
	assert.Equal(t, 1, result.SourcesFetched)
	assert.Equal(t, 1, result.SourcesFailed)
	require.Len(t, result.Errors, 1)
	assert.ErrorContains(t, result.Errors[0], "down: 503")
}

func TestGetFeedInvalidDate(t *testing.T) {
	svc := newService(t, cache.NewMemoryStore())
	_, err := svc.GetFeed(context.Background(), Query{StartDate: "last tuesday"})
	assert.ErrorIs(t, err, search.ErrInvalidDate)
}

func TestGetFeedViews(t *testing.T) {
	svc := newService(t, cache.NewMemoryStore(),
		stub("Tech Blog", models.ArticleTypeRSS, "tech",
			article("https://tech.example/1", "Kernel scheduling deep dive for engineers", "2024-01-15T11:00:00Z")),
		stub("World News", models.ArticleTypeRSS, "general",
			article("https://news.example/1", "Election results announced after long count", "2024-01-15T10:00:00Z")),
		stub("r/golang", models.ArticleTypeReddit, "",
			article("https://www.reddit.com/r/golang/1", "Generics patterns that worked for us", "2024-01-15T09:00:00Z")),
	)
	ctx := context.Background()

	links := func(q Query) []string {
		page, err := svc.GetFeed(ctx, q)
		require.NoError(t, err)
		var out []string
		for _, a := range page.Articles {
			out = append(out, a.Link)
		}
		return out
	}

	assert.Len(t, links(Query{}), 3)
	assert.Equal(t, []string{"https://tech.example/1", "https://www.reddit.com/r/golang/1"}, links(Query{Preference: models.PreferenceTech}))
	assert.Equal(t, []string{"https://news.example/1", "https://www.reddit.com/r/golang/1"}, links(Query{Preference: models.PreferenceGeneral}))
	assert.Equal(t, []string{"https://www.reddit.com/r/golang/1"}, links(Query{SourceFilter: models.ArticleTypeReddit}))
}

func TestGetFeedQualityView(t *testing.T) {
	svc := newService(t, cache.NewMemoryStore(),
		stub("Blog", models.ArticleTypeRSS, "",
			models.Article{
				Link: "https://blog.example/old", Title: "A careful look at memory allocators in modern runtimes",
				Summary: "We benchmark three allocators and explain the results in detail.", Published: "2023-01-01T00:00:00Z",
			},
			models.Article{
				Link: "https://blog.example/new", Title: "Structured logging with zerolog in large Go services",
				Summary: "How we moved a fleet of services to structured logs.", Published: "2024-01-15T11:00:00Z",
			},
			models.Article{Link: "https://blog.example/spam", Title: "BUY NOW!!! 1234567890", Published: "2022-01-01T00:00:00Z"},
		),
	)

	page, err := svc.GetFeed(context.Background(), Query{QualityFilter: true})
	require.NoError(t, err)
	require.NotEmpty(t, page.Articles)
	assert.Equal(t, "https://blog.example/new", page.Articles[0].Link)
	for i, a := range page.Articles {
		assert.GreaterOrEqual(t, a.QualityScore, 0.4)
		if i > 0 {
			assert.LessOrEqual(t, a.QualityScore, page.Articles[i-1].QualityScore)
		}
		assert.NotEqual(t, "https://blog.example/spam", a.Link)
	}
}

func TestGetFeedSearchAndPagination(t *testing.T) {
	var articles []models.Article
	for i := 0; i < 5; i++ {
		articles = append(articles, article(
			fmt.Sprintf("https://blog.example/%d", i),
			fmt.Sprintf("Kubernetes operators part %d", i),
			fmt.Sprintf("2024-01-%02dT10:00:00Z", 10+i),
		))
	}
	articles = append(articles, article("https://blog.example/other", "Database indexing explained", "2024-01-01T10:00:00Z"))
	svc := newService(t, cache.NewMemoryStore(), stub("Blog", models.ArticleTypeRSS, "", articles...))

	page, err := svc.GetFeed(context.Background(), Query{Search: "KUBERNETES", Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, page.Articles, 2)
	assert.Equal(t, "https://blog.example/2", page.Articles[0].Link)
	assert.Equal(t, Pagination{Page: 2, PerPage: 2, TotalItems: 5, TotalPages: 3, HasNext: true, HasPrev: true}, page.Pagination)
	assert.Equal(t, "KUBERNETES", page.Filters.Search)

	page, err = svc.GetFeed(context.Background(), Query{StartDate: "2024-01-13", EndDate: "2024-01-14"})
	require.NoError(t, err)
	assert.Len(t, page.Articles, 2)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	cases := []struct {
		name           string
		page, per, max int
		want           []int
		meta           Pagination
	}{
		{"first page", 1, 2, 100, []int{1, 2}, Pagination{Page: 1, PerPage: 2, TotalItems: 5, TotalPages: 3, HasNext: true}},
		{"last partial page", 3, 2, 100, []int{5}, Pagination{Page: 3, PerPage: 2, TotalItems: 5, TotalPages: 3, HasPrev: true}},
		{"past the end", 9, 2, 100, []int{}, Pagination{Page: 9, PerPage: 2, TotalItems: 5, TotalPages: 3, HasPrev: true}},
		{"page below one", -1, 2, 100, []int{1, 2}, Pagination{Page: 1, PerPage: 2, TotalItems: 5, TotalPages: 3, HasNext: true}},
		{"per page clamped up", 1, 0, 100, []int{1}, Pagination{Page: 1, PerPage: 1, TotalItems: 5, TotalPages: 5, HasNext: true}},
		{"per page clamped down", 1, 500, 3, []int{1, 2, 3}, Pagination{Page: 1, PerPage: 3, TotalItems: 5, TotalPages: 2, HasNext: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, meta := Paginate(items, tc.page, tc.per, tc.max)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.meta, meta)
		})
	}

	got, meta := Paginate([]int{}, 1, 20, 100)
	assert.Empty(t, got)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
}

func TestViewsCoverEveryKey(t *testing.T) {
	keys := map[string]struct{}{}
	for _, v := range Views() {
		keys[v.Key()] = struct{}{}
	}
	assert.Len(t, keys, len(Views()))
	assert.Contains(t, keys, "feeds:all")
	assert.Contains(t, keys, "feeds:all:source=youtube:quality:pref=general")
}
