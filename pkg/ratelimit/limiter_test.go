package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowHonoursBurst(t *testing.T) {
	m := NewMultiLimiter()
	m.AddLimiter("api", 0.001, 2)

	assert.True(t, m.Allow("api"))
	assert.True(t, m.Allow("api"))
	assert.False(t, m.Allow("api"), "burst exhausted")
	assert.False(t, m.Allow("missing"))
}

func TestWait(t *testing.T) {
	m := NewMultiLimiter()
	m.AddLimiter("api", 0.001, 1)

	require.NoError(t, m.Wait(context.Background(), "api"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, m.Wait(ctx, "api"), "next token is far beyond the deadline")

	assert.Error(t, m.Wait(context.Background(), "missing"))
}

func TestNilLimiterNeverBlocks(t *testing.T) {
	var m *MultiLimiter
	assert.NoError(t, m.Wait(context.Background(), LimiterRSS))
	assert.True(t, m.Allow(LimiterRSS))
}

func TestNewRegistersEveryUpstream(t *testing.T) {
	m := New(Rates{RSSPerMinute: 600})
	for _, name := range []string{LimiterAnthropic, LimiterReddit, LimiterRSS, LimiterScrape, LimiterYouTube} {
		assert.True(t, m.Allow(name), name)
	}
	assert.InDelta(t, 10.0, float64(m.limiters[LimiterRSS].Limit()), 1e-9)
	assert.InDelta(t, 1.0, float64(m.limiters[LimiterReddit].Limit()), 1e-9, "default 60 per minute")
}
