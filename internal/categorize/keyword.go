// Package categorize assigns up to three broad categories to each article.
package categorize

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/contenthub/internal/models"
)

// General is assigned when no category keyword matches
const General = "General"

const maxCategories = 3

// Categorizer assigns categories to articles in place
type Categorizer interface {
	Categorize(ctx context.Context, articles []models.Article)
}

type category struct {
	name     string
	keywords []string
}

var defaultCategories = []category{
	{"AI", []string{"ai", "artificial intelligence", "machine learning", "deep learning", "neural network", "gpt", "llm", "chatgpt", "openai", "generative ai", "transformer", "nlp", "computer vision", "anthropic", "claude", "gemini", "copilot", "midjourney", "stable diffusion"}},
	{"Security", []string{"security", "hack", "breach", "vulnerability", "cyber", "malware", "ransomware", "encryption", "privacy", "phishing", "exploit", "zero-day", "firewall", "penetration test", "infosec", "threat", "attack", "password", "authentication", "authorization"}},
	{"Cybersecurity", []string{"cybersecurity", "cyber security", "cyber attack", "data breach", "security breach", "hacker", "hacking", "ddos", "botnet", "trojan", "spyware", "adware"}},
	{"Cloud", []string{"cloud", "aws", "azure", "gcp", "kubernetes", "docker", "serverless", "lambda", "ec2", "s3", "cloud computing", "iaas", "paas", "saas", "microservices", "container", "orchestration", "cloud native"}},
	{"Mobile", []string{"mobile", "ios", "android", "iphone", "smartphone", "app store", "play store", "mobile app", "swift", "kotlin", "react native", "flutter", "tablet", "ipad"}},
	{"Web", []string{"web", "browser", "javascript", "react", "vue", "angular", "frontend", "backend", "html", "css", "node.js", "next.js", "svelte", "tailwind", "webpack", "vite", "web development", "full stack"}},
	{"Hardware", []string{"hardware", "chip", "processor", "gpu", "cpu", "semiconductor", "apple silicon", "nvidia", "amd", "intel", "arm", "transistor", "fabrication", "tsmc", "memory", "storage", "ssd", "ram"}},
	{"Gaming", []string{"gaming", "playstation", "xbox", "nintendo", "steam", "esports", "video game", "console", "pc gaming", "game developer", "unity", "unreal engine", "twitch", "streamer"}},
	{"Startup", []string{"startup", "funding", "venture capital", "vc", "investment", "acquisition", "series a", "series b", "seed round", "ipo", "unicorn", "valuation", "pitch", "entrepreneur", "founder", "y combinator", "techstars"}},
	{"Programming", []string{"programming", "code", "developer", "python", "java", "rust", "go", "typescript", "c++", "c#", "ruby", "php", "scala", "kotlin", "software", "coding", "algorithm", "data structure", "api", "framework", "library"}},
	{"Data Science", []string{"data science", "data scientist", "big data", "analytics", "data analysis", "pandas", "numpy", "jupyter", "visualization", "tableau", "power bi", "sql", "database", "etl", "data engineering", "data pipeline"}},
	{"DevOps", []string{"devops", "ci/cd", "continuous integration", "continuous deployment", "jenkins", "github actions", "gitlab", "terraform", "ansible", "infrastructure", "monitoring", "observability", "prometheus", "grafana", "deployment", "automation"}},
}

// Names returns every category the keyword categorizer can assign, plus General
func Names() []string {
	out := make([]string, 0, len(defaultCategories)+1)
	for _, c := range defaultCategories {
		out = append(out, c.name)
	}
	return append(out, General)
}

type compiledCategory struct {
	name     string
	patterns []*regexp.Regexp
}

// Keyword scores categories by keyword hits: 3 per title hit, otherwise 1 per summary hit
type Keyword struct {
	categories []compiledCategory
}

// NewKeyword compiles the built-in category table
func NewKeyword() *Keyword {
	k := &Keyword{categories: make([]compiledCategory, 0, len(defaultCategories))}
	for _, c := range defaultCategories {
		cc := compiledCategory{name: c.name}
		for _, kw := range c.keywords {
			cc.patterns = append(cc.patterns, regexp.MustCompile(`(^|[^\w])`+regexp.QuoteMeta(kw)+`($|[^\w])`))
		}
		k.categories = append(k.categories, cc)
	}
	return k
}

// Categorize implements Categorizer
func (k *Keyword) Categorize(_ context.Context, articles []models.Article) {
	for i := range articles {
		articles[i].Categories = k.For(articles[i].Title, articles[i].Summary)
	}
}

// For returns up to three categories for a title and summary, primary first
func (k *Keyword) For(title, summary string) []string {
	titleLower := strings.ToLower(title)
	summaryLower := strings.ToLower(summary)

	type scored struct {
		name  string
		score int
	}
	var hits []scored
	for _, c := range k.categories {
		score := 0
		for _, p := range c.patterns {
			switch {
			case p.MatchString(titleLower):
				score += 3
			case p.MatchString(summaryLower):
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{c.name, score})
		}
	}

	if len(hits) == 0 {
		return []string{General}
	}

	// table order breaks ties
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > maxCategories {
		hits = hits[:maxCategories]
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}
	return out
}
