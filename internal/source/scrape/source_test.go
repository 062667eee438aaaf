package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contenthub/internal/config"
	"github.com/contenthub/internal/models"
)

const techmemePage = `<html><body>
<div class="item"><a class="ourh" href="https://example.com/story-1">Chipmaker  posts record
 quarter</a><a class="ourh" href="https://example.com/ignored">second link</a></div>
<div class="item"><a class="ourh" href="/r/story-2">Relative link story</a></div>
<div class="item"><span>no headline</span></div>
<div class="item"><a class="ourh" href="https://example.com/story-1">Duplicate</a></div>
<div class="item"><a class="ourh" href="javascript:void(0)">Script link</a></div>
</body></html>`

const genericPage = `<html><body>
<article><h2><a href="/posts/one">Post one</a></h2></article>
<h3><a href="https://other.example.org/two">Post two</a></h3>
<h2><a href="#top">Back to top</a></h2>
</body></html>`

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newSource(t *testing.T, url string) *Source {
	t.Helper()
	s, err := New(config.FeedSpec{Name: "Page", URL: url}, nil, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestFetchTechmemeSelectors(t *testing.T) {
	srv := serve(t, techmemePage)
	s := newSource(t, srv.URL+"/river")
	s.site = sites["techmeme.com"]

	articles, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "Chipmaker posts record quarter", articles[0].Title)
	assert.Equal(t, "https://example.com/story-1", articles[0].Link)
	assert.Equal(t, srv.URL+"/r/story-2", articles[1].Link, "relative links resolve against the page")
	for _, a := range articles {
		assert.Equal(t, "2024-01-15T12:00:00Z", a.Published)
		assert.Equal(t, models.ArticleTypeScrape, a.Type)
		assert.Equal(t, "Page", a.Source)
		assert.Empty(t, a.Summary)
	}
}

func TestFetchGenericFallback(t *testing.T) {
	srv := serve(t, genericPage)
	s := newSource(t, srv.URL)
	s.site = sites["techmeme.com"]

	articles, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2, "site selectors find nothing, generic ones apply")
	assert.Equal(t, srv.URL+"/posts/one", articles[0].Link)
	assert.Equal(t, "https://other.example.org/two", articles[1].Link)
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newSource(t, srv.URL).Fetch(context.Background())
	assert.Error(t, err)
}

func TestLookupSite(t *testing.T) {
	assert.Equal(t, "Techmeme", lookupSite("www.techmeme.com").name)
	assert.Equal(t, "news.example.com", lookupSite("news.example.com").name)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(config.FeedSpec{URL: "not a url"}, nil, nil)
	assert.Error(t, err)
}
