package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/contenthub/internal/textutil"
)

// Categorize asks the model for 1-3 categories drawn from allowed, primary first
func (c *Client) Categorize(ctx context.Context, title, summary string, allowed []string) ([]string, error) {
	prompt := fmt.Sprintf(CategorizeUserPrompt,
		strings.Join(allowed, ", "),
		title,
		textutil.Truncate(summary, maxPromptSummary),
	)

	response, err := c.Complete(ctx, CategorizeSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	categories := ParseCategories(response, allowed)
	if len(categories) == 0 {
		c.log.Warn().
			Str("response", response).
			Msg("Model returned no known categories")
	}
	return categories, nil
}

// ParseCategories extracts known category names from a comma-separated
// model response, keeping order, dropping unknown names and duplicates.
func ParseCategories(response string, allowed []string) []string {
	known := make(map[string]string, len(allowed))
	for _, a := range allowed {
		known[strings.ToLower(a)] = a
	}

	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(strings.TrimSpace(response), ",") {
		name, ok := known[strings.ToLower(strings.Trim(strings.TrimSpace(part), `."'`))]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
		if len(out) == 3 {
			break
		}
	}
	return out
}
