package categorize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contenthub/internal/cache"
	"github.com/contenthub/internal/models"
)

func TestKeywordFor(t *testing.T) {
	k := NewKeyword()

	assert.Equal(t, []string{General}, k.For("Quarterly earnings call recap", ""))
	assert.Equal(t, []string{"Cloud"}, k.For("Kubernetes autoscaling in practice", ""))
	assert.Equal(t, "AI", k.For("OpenAI ships a new LLM", "")[0])
	assert.NotContains(t, k.For("The CEO said profits are up", ""), "AI", "keywords match whole words")
}

func TestKeywordForTitleOutweighsSummary(t *testing.T) {
	k := NewKeyword()
	got := k.For("New ransomware strain spreads", "The group targets cloud backups")
	require.NotEmpty(t, got)
	assert.Equal(t, "Security", got[0])
	assert.Contains(t, got, "Cloud")
}

func TestKeywordForAtMostThree(t *testing.T) {
	k := NewKeyword()
	got := k.For("AI startup raises funding for cloud security on mobile", "")
	assert.Len(t, got, 3)
}

type fakeClient struct {
	calls int
	resp  []string
	err   error
}

func (f *fakeClient) Categorize(context.Context, string, string, []string) ([]string, error) {
	f.calls++
	return f.resp, f.err
}

func TestAICategorizerCapsCallsAndCaches(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{resp: []string{"Programming"}}
	store := cache.NewMemoryStore()
	c := NewAI(client, store, 2, nil)

	articles := []models.Article{
		{Title: "Rust 2024 edition", Link: "a"},
		{Title: "Zig comptime explained", Link: "b"},
		{Title: "Kubernetes 1.30 released", Link: "c"},
	}
	c.Categorize(ctx, articles)

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, []string{"Programming"}, articles[0].Categories)
	assert.Equal(t, []string{"Programming"}, articles[1].Categories)
	assert.Equal(t, []string{"Cloud"}, articles[2].Categories, "over budget falls back to keywords")

	// second run reuses cached categorizations
	again := []models.Article{articles[0], articles[1]}
	c.Categorize(ctx, again)
	assert.Equal(t, 2, client.calls)
}

func TestAICategorizerFallsBackOnError(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}
	c := NewAI(client, cache.NewMemoryStore(), 5, nil)

	articles := []models.Article{{Title: "Docker Desktop gets faster", Link: "a"}}
	c.Categorize(context.Background(), articles)

	assert.Equal(t, []string{"Cloud"}, articles[0].Categories)
}

func TestAICategorizerEmptyAnswerIsGeneral(t *testing.T) {
	client := &fakeClient{}
	c := NewAI(client, nil, 5, nil)

	articles := []models.Article{{Title: "Something", Link: "a"}}
	c.Categorize(context.Background(), articles)

	assert.Equal(t, []string{General}, articles[0].Categories)
}
