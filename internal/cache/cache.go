// Package cache is the feed cache. Stores never return errors: a failing
// backend behaves like an empty cache so callers fall through to a live fetch.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/contenthub/internal/models"
	"github.com/contenthub/pkg/logger"
)

// FeedKeyBase is the key family written by the refresh scheduler
const FeedKeyBase = "feeds:all"

// Store is a key-value store with per-entry TTL
type Store interface {
	// Get returns the value and true on a hit
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value for ttl; ttl <= 0 means no expiry
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Close() error
}

// GetJSON decodes a cached JSON value. Undecodable entries count as misses.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var v T
	raw, ok := s.Get(ctx, key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false
	}
	return v, true
}

// SetJSON encodes v as JSON and stores it. Unencodable values are not stored.
func SetJSON[T any](ctx context.Context, s Store, key string, v T, ttl time.Duration) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		return false
	}
	s.Set(ctx, key, raw, ttl)
	return true
}

// Remember returns the cached value for key, or calls load and caches its
// result. Load errors are returned and nothing is cached.
func Remember[T any](ctx context.Context, s Store, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := GetJSON[T](ctx, s, key); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	SetJSON(ctx, s, key, v, ttl)
	return v, nil
}

// FeedKey builds the cache key of one feed view
func FeedKey(sourceFilter models.ArticleType, qualityFilter bool, preference models.ContentPreference) string {
	var b strings.Builder
	b.WriteString(FeedKeyBase)
	if sourceFilter != "" {
		fmt.Fprintf(&b, ":source=%s", sourceFilter)
	}
	if qualityFilter {
		b.WriteString(":quality")
	}
	if preference != "" && preference != models.PreferenceBoth {
		fmt.Fprintf(&b, ":pref=%s", preference)
	}
	return b.String()
}

// ReadHistoryKey is the key of a user's cached recent-read links
func ReadHistoryKey(userID string) string {
	return "read_history:" + userID
}

// CategoryKey is the key of a cached AI categorization
func CategoryKey(contentHash string) string {
	return "ai_category:" + contentHash
}

// Cache drivers
const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
	DriverNone   = "none"
)

// New builds the store selected by driver. An unreachable Redis is logged
// but still returned: it reads as an empty cache until it comes back.
func New(ctx context.Context, driver string, rcfg RedisConfig, log *logger.Logger) (Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	switch driver {
	case DriverRedis:
		store := NewRedisStore(NewRedisClient(rcfg), log)
		if err := store.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", rcfg.Addr).Msg("Redis unreachable, serving without cache until it recovers")
		}
		return store, nil
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverNone:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", driver)
	}
}

// PrefixDeleter is implemented by stores that can drop a whole key family
type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) int
}

// Noop is a store that never holds anything
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (Noop) Set(context.Context, string, []byte, time.Duration) {}

func (Noop) Delete(context.Context, string) {}

func (Noop) Close() error { return nil }
