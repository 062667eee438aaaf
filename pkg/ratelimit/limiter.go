package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// MultiLimiter manages one rate limiter per upstream service
type MultiLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// NewMultiLimiter creates a new multi-limiter
func NewMultiLimiter() *MultiLimiter {
	return &MultiLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// AddLimiter adds a new rate limiter for a service
// requestsPerSecond: the rate limit (e.g., 10 means 10 requests per second)
// burst: maximum burst size
func (m *MultiLimiter) AddLimiter(name string, requestsPerSecond float64, burst int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limiters[name] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Wait blocks until the limiter allows an event.
// A nil MultiLimiter never blocks.
func (m *MultiLimiter) Wait(ctx context.Context, name string) error {
	if m == nil {
		return nil
	}

	m.mu.RLock()
	limiter, ok := m.limiters[name]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("limiter %s not found", name)
	}

	return limiter.Wait(ctx)
}

// Allow reports whether an event may happen now
func (m *MultiLimiter) Allow(name string) bool {
	if m == nil {
		return true
	}

	m.mu.RLock()
	limiter, ok := m.limiters[name]
	m.mu.RUnlock()

	if !ok {
		return false
	}

	return limiter.Allow()
}

// Default rate limiter names
const (
	LimiterAnthropic = "anthropic"
	LimiterReddit    = "reddit"
	LimiterRSS       = "rss"
	LimiterScrape    = "scrape"
	LimiterYouTube   = "youtube"
)

// Rates holds per-upstream request rates (requests per minute)
type Rates struct {
	AnthropicPerMinute int
	RedditPerMinute    int
	RSSPerMinute       int
	ScrapePerMinute    int
	YouTubePerMinute   int
}

// New creates a limiter for every upstream from the given rates.
// Non-positive rates fall back to the defaults.
func New(r Rates) *MultiLimiter {
	m := NewMultiLimiter()

	m.AddLimiter(LimiterAnthropic, perSecond(r.AnthropicPerMinute, 10), 2)
	m.AddLimiter(LimiterReddit, perSecond(r.RedditPerMinute, 60), 10)
	m.AddLimiter(LimiterRSS, perSecond(r.RSSPerMinute, 120), 10)
	m.AddLimiter(LimiterScrape, perSecond(r.ScrapePerMinute, 30), 5)
	m.AddLimiter(LimiterYouTube, perSecond(r.YouTubePerMinute, 60), 10)

	return m
}

// NewDefaultLimiter creates a limiter with default rate limits
func NewDefaultLimiter() *MultiLimiter {
	return New(Rates{})
}

func perSecond(perMinute, fallback int) float64 {
	if perMinute <= 0 {
		perMinute = fallback
	}
	return float64(perMinute) / 60
}
