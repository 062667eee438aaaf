// Package scrape extracts headline links from HTML pages.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/contenthub/internal/config"
	"github.com/contenthub/internal/models"
	"github.com/contenthub/internal/source"
	"github.com/contenthub/internal/textutil"
	"github.com/contenthub/pkg/logger"
	"github.com/contenthub/pkg/ratelimit"
)

const maxItems = 100

// Selector locates headlines. With Item set, Link is searched inside each
// item and the first match is used; otherwise Link is matched page-wide.
type Selector struct {
	Item string
	Link string
}

type site struct {
	name      string
	selectors []Selector
}

var sites = map[string]site{
	"techmeme.com": {name: "Techmeme", selectors: []Selector{{Item: "div.item", Link: "a.ourh"}}},
}

var genericSelector = Selector{Link: "article h2 a, h2 a, h3 a"}

// Source implements ArticleSource for scraped pages
type Source struct {
	source.Meta
	base *url.URL
	site site
	http *source.HTTPClient
	log  *logger.Logger
	now  func() time.Time
}

// New creates a scrape source for one page
func New(target config.FeedSpec, httpc *source.HTTPClient, log *logger.Logger) (*Source, error) {
	base, err := url.Parse(target.URL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid scrape url %q", target.URL)
	}
	if httpc == nil {
		httpc = source.NewHTTPClient(nil, "", nil, ratelimit.LimiterScrape)
	}
	if log == nil {
		log = logger.Nop()
	}

	st := lookupSite(base.Host)
	name := target.Name
	if name == "" {
		name = st.name
	}

	return &Source{
		Meta: source.Meta{
			SourceName:   name,
			SourceURL:    target.URL,
			Kind:         models.ArticleTypeScrape,
			QualityTier:  source.ParseTier(target.Tier, models.TierStandard),
			ContentGroup: strings.ToLower(target.Group),
		},
		base: base,
		site: st,
		http: httpc,
		log:  log.WithSource("scrape", name),
		now:  time.Now,
	}, nil
}

// NewMultiple creates scrape sources from config, skipping invalid targets
func NewMultiple(cfg config.ScrapeConfig, httpc *source.HTTPClient, log *logger.Logger) []*Source {
	sources := make([]*Source, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		s, err := New(t, httpc, log)
		if err != nil {
			if log != nil {
				log.Warn().Err(err).Msg("Skipping scrape target")
			}
			continue
		}
		sources = append(sources, s)
	}
	return sources
}

func lookupSite(host string) site {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	for domain, st := range sites {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return st
		}
	}
	return site{name: host}
}

// Fetch downloads the page and extracts headlines
func (s *Source) Fetch(ctx context.Context) ([]models.Article, error) {
	body, err := s.http.Get(ctx, s.SourceURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.SourceURL, err)
	}

	published := models.FormatPublished(s.now())

	var articles []models.Article
	for _, sel := range append(append([]Selector{}, s.site.selectors...), genericSelector) {
		articles = s.extract(doc, sel, published)
		if len(articles) > 0 {
			break
		}
	}

	s.log.Info().Int("count", len(articles)).Msg("Scraped headlines")
	return articles, nil
}

func (s *Source) extract(doc *goquery.Document, sel Selector, published string) []models.Article {
	var anchors []*goquery.Selection
	if sel.Item != "" {
		doc.Find(sel.Item).Each(func(_ int, item *goquery.Selection) {
			if a := item.Find(sel.Link).First(); a.Length() > 0 {
				anchors = append(anchors, a)
			}
		})
	} else {
		doc.Find(sel.Link).Each(func(_ int, a *goquery.Selection) {
			anchors = append(anchors, a)
		})
	}

	seen := map[string]struct{}{}
	var articles []models.Article
	for _, a := range anchors {
		title := textutil.CollapseWhitespace(a.Text())
		href, _ := a.Attr("href")
		link := s.resolve(href)
		if title == "" || link == "" {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}

		articles = append(articles, models.Article{
			Title:      title,
			Link:       link,
			Source:     s.SourceName,
			Published:  published,
			Type:       models.ArticleTypeScrape,
			SourceTier: s.QualityTier,
		})
		if len(articles) == maxItems {
			break
		}
	}
	return articles
}

// resolve makes href absolute against the page URL
func (s *Source) resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := s.base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}

// HealthCheck verifies the page is reachable
func (s *Source) HealthCheck(ctx context.Context) error {
	_, err := s.http.Get(ctx, s.SourceURL)
	return err
}

var _ source.ArticleSource = (*Source)(nil)
