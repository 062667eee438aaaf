package categorize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/contenthub/internal/cache"
	"github.com/contenthub/internal/models"
	"github.com/contenthub/pkg/logger"
)

// AICategoryTTL is how long a model categorization is reused
const AICategoryTTL = 24 * time.Hour

// CategoryClient is a model that can pick categories for an article
type CategoryClient interface {
	Categorize(ctx context.Context, title, summary string, allowed []string) ([]string, error)
}

// AI categorizes with a language model, caching results by content and
// capping new model calls per run. Everything else uses the keyword categorizer.
type AI struct {
	client      CategoryClient
	store       cache.Store
	fallback    *Keyword
	maxPerCycle int
	log         *logger.Logger
}

// NewAI creates a model-backed categorizer
func NewAI(client CategoryClient, store cache.Store, maxPerCycle int, log *logger.Logger) *AI {
	if store == nil {
		store = cache.Noop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AI{
		client:      client,
		store:       store,
		fallback:    NewKeyword(),
		maxPerCycle: maxPerCycle,
		log:         log.WithComponent("categorizer"),
	}
}

// Categorize implements Categorizer
func (c *AI) Categorize(ctx context.Context, articles []models.Article) {
	allowed := Names()
	calls, cached, failed := 0, 0, 0

	for i := range articles {
		a := &articles[i]
		key := cache.CategoryKey(contentHash(a.Title, a.Summary))

		if cats, ok := cache.GetJSON[[]string](ctx, c.store, key); ok && len(cats) > 0 {
			a.Categories = cats
			cached++
			continue
		}

		if calls >= c.maxPerCycle || ctx.Err() != nil {
			a.Categories = c.fallback.For(a.Title, a.Summary)
			continue
		}

		calls++
		cats, err := c.client.Categorize(ctx, a.Title, a.Summary, allowed)
		if err != nil {
			failed++
			c.log.Warn().Err(err).Str("title", a.Title).Msg("AI categorization failed, using keywords")
			a.Categories = c.fallback.For(a.Title, a.Summary)
			continue
		}
		if len(cats) == 0 {
			cats = []string{General}
		}
		a.Categories = cats
		cache.SetJSON(ctx, c.store, key, cats, AICategoryTTL)
	}

	c.log.Debug().
		Int("model_calls", calls).
		Int("cache_hits", cached).
		Int("failures", failed).
		Msg("Categorized articles")
}

func contentHash(title, summary string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + summary))
	return hex.EncodeToString(sum[:16])
}
