package source

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/contenthub/internal/models"
	"github.com/contenthub/pkg/logger"
)

const (
	// DefaultConcurrency bounds simultaneous fetches
	DefaultConcurrency = 10
	// DefaultFetchTimeout applies to each source separately
	DefaultFetchTimeout = 10 * time.Second
)

// ArticleSource defines the interface for content sources
type ArticleSource interface {
	// Name returns the unique name of this source
	Name() string

	// URL returns the upstream address (feed, page, subreddit or channel)
	URL() string

	// Type returns the article type this source produces
	Type() models.ArticleType

	// Tier returns the configured quality tier
	Tier() models.QualityTier

	// Group returns the content-preference bucket (tech, general) or "" for all
	Group() string

	// Fetch retrieves normalized articles from the source
	Fetch(ctx context.Context) ([]models.Article, error)

	// HealthCheck verifies the source is accessible
	HealthCheck(ctx context.Context) error
}

// Descriptor is the persisted identity of a source
type Descriptor struct {
	Name string
	URL  string
	Type models.ArticleType
	Tier models.QualityTier
}

// Describe returns the descriptor of s
func Describe(s ArticleSource) Descriptor {
	return Descriptor{Name: s.Name(), URL: s.URL(), Type: s.Type(), Tier: s.Tier()}
}

// HealthRecorder persists fetch outcomes
type HealthRecorder interface {
	RecordFetch(ctx context.Context, src Descriptor, elapsed time.Duration, fetchErr error) error
	InactiveSourceNames(ctx context.Context) ([]string, error)
}

// Result is the outcome of fetching one source. A failed source carries Err
// and no articles.
type Result struct {
	Source   ArticleSource
	Articles []models.Article
	Err      error
	Elapsed  time.Duration
	Skipped  bool
}

// Option configures a Manager
type Option func(*Manager)

// WithConcurrency bounds simultaneous fetches
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithFetchTimeout sets the per-source timeout
func WithFetchTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithHealthRecorder reports every attempt to r and skips sources r marks inactive
func WithHealthRecorder(r HealthRecorder) Option {
	return func(m *Manager) { m.health = r }
}

// WithLogger sets the logger
func WithLogger(log *logger.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log.WithComponent("sources")
		}
	}
}

// Manager manages multiple content sources
type Manager struct {
	sources     []ArticleSource
	concurrency int
	timeout     time.Duration
	health      HealthRecorder
	log         *logger.Logger
}

// NewManager creates a new source manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sources:     make([]ArticleSource, 0),
		concurrency: DefaultConcurrency,
		timeout:     DefaultFetchTimeout,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a source to the manager
func (m *Manager) Register(sources ...ArticleSource) {
	m.sources = append(m.sources, sources...)
}

// GetSources returns all registered sources
func (m *Manager) GetSources() []ArticleSource {
	return m.sources
}

// GetSourceByName returns a source by name
func (m *Manager) GetSourceByName(name string) ArticleSource {
	for _, s := range m.sources {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// GetSourcesByType returns all sources of a given type
func (m *Manager) GetSourcesByType(sourceType models.ArticleType) []ArticleSource {
	var result []ArticleSource
	for _, s := range m.sources {
		if s.Type() == sourceType {
			result = append(result, s)
		}
	}
	return result
}

// FetchAll fetches every registered source concurrently and never fails:
// each source error, timeout or panic is logged and yields an empty Result
// for that source only. Results are in registration order.
func (m *Manager) FetchAll(ctx context.Context) []Result {
	results := make([]Result, len(m.sources))
	inactive := m.inactive(ctx)

	var g errgroup.Group
	g.SetLimit(m.concurrency)

	for i, src := range m.sources {
		if _, off := inactive[src.Name()]; off {
			results[i] = Result{Source: src, Skipped: true}
			m.log.Debug().Str("source", src.Name()).Msg("Skipping inactive source")
			continue
		}
		g.Go(func() error {
			results[i] = m.fetchOne(ctx, src)
			return nil
		})
	}

	_ = g.Wait()

	failed, skipped := 0, 0
	for _, r := range results {
		switch {
		case r.Skipped:
			skipped++
		case r.Err != nil:
			failed++
		}
	}
	m.log.Info().
		Int("sources", len(m.sources)).
		Int("failed", failed).
		Int("skipped", skipped).
		Msg("Fetched all sources")

	return results
}

// HealthCheckAll checks every source; a nil entry means healthy
func (m *Manager) HealthCheckAll(ctx context.Context) map[string]error {
	out := make(map[string]error, len(m.sources))
	for _, src := range m.sources {
		hctx, cancel := context.WithTimeout(ctx, m.timeout)
		out[src.Name()] = src.HealthCheck(hctx)
		cancel()
	}
	return out
}

func (m *Manager) fetchOne(ctx context.Context, src ArticleSource) Result {
	fetchCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	type fetched struct {
		articles []models.Article
		err      error
	}
	done := make(chan fetched, 1)

	start := time.Now()
	go func() {
		a, err := safeFetch(fetchCtx, src)
		done <- fetched{a, err}
	}()

	// A source that ignores its context still cannot hold the batch past the timeout
	var articles []models.Article
	var err error
	select {
	case f := <-done:
		articles, err = f.articles, f.err
	case <-fetchCtx.Done():
		err = fmt.Errorf("fetch %s: %w", src.Name(), fetchCtx.Err())
	}
	elapsed := time.Since(start)

	log := m.log.WithSource(string(src.Type()), src.Name())
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", elapsed).Msg("Source fetch failed")
		articles = nil
	} else {
		log.Debug().Int("count", len(articles)).Dur("elapsed", elapsed).Msg("Source fetched")
	}

	if m.health != nil {
		if herr := m.health.RecordFetch(ctx, Describe(src), elapsed, err); herr != nil {
			log.Warn().Err(herr).Msg("Failed to record source health")
		}
	}

	return Result{Source: src, Articles: articles, Err: err, Elapsed: elapsed}
}

func safeFetch(ctx context.Context, src ArticleSource) (articles []models.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			articles, err = nil, fmt.Errorf("source %s panicked: %v", src.Name(), r)
		}
	}()
	return src.Fetch(ctx)
}

func (m *Manager) inactive(ctx context.Context) map[string]struct{} {
	out := map[string]struct{}{}
	if m.health == nil {
		return out
	}
	names, err := m.health.InactiveSourceNames(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("Failed to load inactive sources")
		return out
	}
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

// Articles returns the non-empty article lists of results, in order
func Articles(results []Result) [][]models.Article {
	lists := make([][]models.Article, 0, len(results))
	for _, r := range results {
		if len(r.Articles) > 0 {
			lists = append(lists, r.Articles)
		}
	}
	return lists
}
