// Package quality ranks articles by a weighted multi-signal score.
package quality

import (
	"context"
	"math"
	"regexp"
	"sort"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/contenthub/internal/models"
)

// Signal weights; they sum to 1.
const (
	WeightSource     = 0.25
	WeightContent    = 0.25
	WeightFreshness  = 0.20
	WeightEngagement = 0.15
	WeightRelevance  = 0.15
)

// DefaultMinScore is the threshold used by FilterByQuality when none is configured
const DefaultMinScore = 0.4

const neutral = 0.5

var tierScores = map[models.QualityTier]float64{
	models.TierPremium:   1.0,
	models.TierStandard:  0.7,
	models.TierCommunity: 0.5,
}

var (
	spamPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{10,}`),
		regexp.MustCompile(`(?i)(buy now|click here|limited time|act now)`),
		regexp.MustCompile(`(!!!+|\?\?\?+)`),
	}
	// All-caps urgency marker followed by more shouting
	shoutingSpam = regexp.MustCompile(`\b(FREE|URGENT|BREAKING)\b.*[A-Z]{5,}`)

	clickbaitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)you won'?t believe`),
		regexp.MustCompile(`(?i)what happens next`),
		regexp.MustCompile(`(?i)doctors hate`),
		regexp.MustCompile(`(?i)one weird trick`),
		regexp.MustCompile(`(?i)this is why`),
		regexp.MustCompile(`(?i)the reason why`),
		regexp.MustCompile(`(?i)number \d+ will shock you`),
	}
)

// EngagementLookup returns aggregate activity for an article link
type EngagementLookup func(ctx context.Context, link string) (models.Engagement, error)

// Scorer computes quality scores. Now is injectable so freshness is deterministic.
type Scorer struct {
	Now func() time.Time
}

// NewScorer creates a scorer using the wall clock
func NewScorer() *Scorer {
	return &Scorer{Now: time.Now}
}

// Score returns the weighted quality score in [0, 1], rounded to 3 decimals
func (s *Scorer) Score(ctx context.Context, a models.Article, tier models.QualityTier, userTagIDs []uint, engagement EngagementLookup) float64 {
	return s.Breakdown(ctx, a, tier, userTagIDs, engagement).Total()
}

// Breakdown computes every component of the score
func (s *Scorer) Breakdown(ctx context.Context, a models.Article, tier models.QualityTier, userTagIDs []uint, engagement EngagementLookup) Components {
	return Components{ScoreBreakdown: models.ScoreBreakdown{
		Source:     SourceScore(tier),
		Content:    ContentScore(a.Title, a.Summary),
		Freshness:  FreshnessScore(a.Published, s.now()),
		Engagement: EngagementScore(ctx, a.Link, engagement),
		Relevance:  RelevanceScore(a.Tags, userTagIDs),
	}}
}

// Apply scores every article in place, recording tier and breakdown
func (s *Scorer) Apply(ctx context.Context, articles []models.Article, userTagIDs []uint, engagement EngagementLookup) {
	for i := range articles {
		a := &articles[i]
		c := s.Breakdown(ctx, *a, a.SourceTier, userTagIDs, engagement)
		a.QualityScore = c.Total()
		b := c.ScoreBreakdown
		a.Breakdown = &b
	}
}

func (s *Scorer) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Components is a score breakdown that can be combined into a total
type Components struct {
	models.ScoreBreakdown
}

// Total combines the components with the signal weights
func (c Components) Total() float64 {
	total := c.Source*WeightSource +
		c.Content*WeightContent +
		c.Freshness*WeightFreshness +
		c.Engagement*WeightEngagement +
		c.Relevance*WeightRelevance
	return round3(total)
}

// Rescore recomputes an article's score for a user's tags, reusing the
// stored breakdown. Articles without a breakdown are left untouched.
func Rescore(a *models.Article, userTagIDs []uint) {
	if a.Breakdown == nil {
		return
	}
	c := Components{ScoreBreakdown: *a.Breakdown}
	c.Relevance = RelevanceScore(a.Tags, userTagIDs)
	a.QualityScore = c.Total()
}

// SourceScore maps a quality tier to its score. Unknown tiers are neutral.
func SourceScore(tier models.QualityTier) float64 {
	if s, ok := tierScores[tier]; ok {
		return s
	}
	return neutral
}

// ContentScore starts at 1 and subtracts penalties for thin, spammy or
// shouting text. The result is clamped to [0, 1].
func ContentScore(title, summary string) float64 {
	score := 1.0

	titleLen := utf8.RuneCountInString(title)
	switch {
	case titleLen < 10:
		score -= 0.3
	case titleLen > 200:
		score -= 0.2
	}

	if utf8.RuneCountInString(summary) < 50 {
		score -= 0.2
	}

	text := title + " " + summary
	if IsSpam(text) {
		score -= 0.4
	}

	for _, p := range clickbaitPatterns {
		if p.MatchString(text) {
			score -= 0.3
			break
		}
	}

	if titleLen > 10 && isAllUpper(title) {
		score -= 0.3
	} else if upperRatio(title) > 0.5 {
		score -= 0.2
	}

	if title != "" && summary != "" {
		score += 0.1
	}

	return clamp(score, 0, 1)
}

// IsSpam reports whether text matches any spam pattern
func IsSpam(text string) bool {
	for _, p := range spamPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return shoutingSpam.MatchString(text)
}

// FreshnessScore buckets article age. Empty or unparseable dates are neutral,
// dates in the future score 0.1.
func FreshnessScore(published string, now time.Time) float64 {
	t, ok := models.ParsePublished(published)
	if !ok {
		return neutral
	}

	age := now.Sub(t)
	switch {
	case age < 0:
		return 0.1
	case age < 6*time.Hour:
		return 1.0
	case age < 24*time.Hour:
		return 0.9
	case age < 72*time.Hour:
		return 0.7
	case age < 7*24*time.Hour:
		return 0.5
	case age < 30*24*time.Hour:
		return 0.3
	default:
		return 0.1
	}
}

// EngagementScore turns activity counts into a score in [0, 1].
// A missing or failing lookup is neutral.
func EngagementScore(ctx context.Context, link string, lookup EngagementLookup) float64 {
	if lookup == nil || link == "" {
		return neutral
	}
	e, err := lookup(ctx, link)
	if err != nil {
		return neutral
	}
	return EngagementFromCounts(e)
}

// EngagementFromCounts scores raw counts
func EngagementFromCounts(e models.Engagement) float64 {
	raw := float64(e.Reads)*0.3 +
		float64(e.Bookmarks)*0.5 +
		float64(e.Helpful)*0.8 -
		float64(e.Negative())*1.0
	return clamp(raw/100, 0, 1)
}

// RelevanceScore measures overlap between article tags and the user's tags
func RelevanceScore(tags []models.ArticleTag, userTagIDs []uint) float64 {
	if len(userTagIDs) == 0 || len(tags) == 0 {
		return neutral
	}

	wanted := make(map[uint]struct{}, len(userTagIDs))
	for _, id := range userTagIDs {
		wanted[id] = struct{}{}
	}

	var sum float64
	matched := false
	for _, t := range tags {
		if _, ok := wanted[t.ID]; ok {
			sum += t.Confidence
			matched = true
		}
	}
	if !matched {
		return 0.3
	}
	return math.Min(sum/float64(len(userTagIDs)), 1)
}

// FilterByQuality keeps articles scoring at least minScore, best first.
// Equal scores keep their input order, so the filter is idempotent.
func FilterByQuality(articles []models.Article, minScore float64) []models.Article {
	kept := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if a.QualityScore >= minScore {
			kept = append(kept, a)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].QualityScore > kept[j].QualityScore
	})
	return kept
}

// isAllUpper mirrors a "shouting" check: at least one cased letter and no lowercase ones
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func upperRatio(s string) float64 {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return 0
	}
	upper := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(n)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
