package llm

import "context"

// Client is the AI completion service boundary. Schema-constrained calls may
// not be available for every model, hence the two call shapes.
type Client interface {
	// CompleteStructured requests output constrained to the given JSON
	// schema and returns the raw JSON content.
	CompleteStructured(ctx context.Context, model, systemPrompt, userPrompt string, schema map[string]any) ([]byte, error)

	// CompleteText requests plain output under a strict system instruction.
	CompleteText(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}

// PromptContext carries optional existing-menu names embedded in prompts to
// bias the model toward reusing known names for matching consistency.
type PromptContext struct {
	ExistingCategoryNames []string
	ExistingItemNames     []string
}
