package ai

// Categorization prompts
const (
	CategorizeSystemPrompt = `You are an editor for a technology news aggregator.
You sort articles into a fixed set of categories. You never invent new categories.`

	CategorizeUserPrompt = `Categorize this tech article into 1-3 categories from this list: %s

Title: %s
Summary: %s

Return ONLY category names separated by commas, primary category first. No explanation.`
)

// maxPromptSummary bounds how much of a summary is sent to the model
const maxPromptSummary = 500
