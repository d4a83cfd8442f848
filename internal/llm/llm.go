// Package llm defines the language-model collaborator the agent workflows
// call. Implementations are treated as black boxes; any call may fail and
// runners convert failures into the job failure path.
package llm

import (
	"context"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

// Metadata is the extracted front matter for a generated text
type Metadata struct {
	Title   string   `json:"title"`
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
}

// Client is the LLM service surface the runners consume
type Client interface {
	// SearchNews returns current news articles for an industry query
	SearchNews(ctx context.Context, query string) ([]domain.NewsArticle, error)

	// GenerateBlog produces article text from a prompt and a persona
	// system instruction
	GenerateBlog(ctx context.Context, prompt, systemInstruction string) (string, error)

	// ExtractMetadata derives title, excerpt and tags from generated text
	ExtractMetadata(ctx context.Context, text string) (Metadata, error)

	// ResearchTopic returns structured insights for a research query
	ResearchTopic(ctx context.Context, query string) ([]domain.Insight, error)
}
