package llm

import "context"

// Usage carries the token counters the analysis collaborator reports back.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Provider is the analysis-model collaborator: one call per analysis request,
// combined corpus in, free-text analysis plus usage out.
type Provider interface {
	Analyze(ctx context.Context, systemPrompt string, corpus string) (string, Usage, error)
}
