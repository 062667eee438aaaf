package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/contenthub/internal/models"
	"github.com/contenthub/pkg/ratelimit"
)

// DefaultUserAgent identifies upstream requests
const DefaultUserAgent = "Mozilla/5.0 (compatible; ContentHub/1.0)"

const maxBodyBytes = 10 << 20

// Meta carries the identity every source shares. Embed it to satisfy the
// descriptive half of ArticleSource.
type Meta struct {
	SourceName   string
	SourceURL    string
	Kind         models.ArticleType
	QualityTier  models.QualityTier
	ContentGroup string
}

func (m Meta) Name() string             { return m.SourceName }
func (m Meta) URL() string              { return m.SourceURL }
func (m Meta) Type() models.ArticleType { return m.Kind }
func (m Meta) Tier() models.QualityTier { return m.QualityTier }
func (m Meta) Group() string            { return m.ContentGroup }

// ParseTier maps a configured tier name, defaulting to fallback
func ParseTier(s string, fallback models.QualityTier) models.QualityTier {
	switch t := models.QualityTier(strings.ToLower(strings.TrimSpace(s))); t {
	case models.TierPremium, models.TierStandard, models.TierCommunity:
		return t
	}
	return fallback
}

// StatusError is returned for non-2xx upstream responses
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// HTTPClient performs polite upstream GETs: a User-Agent on every request
// and a wait on the named rate limiter first.
type HTTPClient struct {
	client      *http.Client
	userAgent   string
	limiter     *ratelimit.MultiLimiter
	limiterName string
}

// NewHTTPClient creates an HTTPClient; nil client means http.DefaultClient
func NewHTTPClient(client *http.Client, userAgent string, limiter *ratelimit.MultiLimiter, limiterName string) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPClient{
		client:      client,
		userAgent:   userAgent,
		limiter:     limiter,
		limiterName: limiterName,
	}
}

// Client returns the underlying http.Client
func (c *HTTPClient) Client() *http.Client {
	return c.client
}

// UserAgent returns the configured User-Agent
func (c *HTTPClient) UserAgent() string {
	return c.userAgent
}

// Wait blocks on the rate limiter
func (c *HTTPClient) Wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx, c.limiterName); err != nil {
		return fmt.Errorf("rate limit %s: %w", c.limiterName, err)
	}
	return nil
}

// Get fetches url and returns the body
func (c *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	if err := c.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return body, nil
}
