package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/brandpulse/content-orchestrator/internal/domain"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	// DefaultModel is used when no model is configured
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout bounds each API call
	DefaultTimeout = 60 * time.Second
)

// ErrAPIKeyNotSet is returned when constructing a client without credentials
var ErrAPIKeyNotSet = errors.New("OpenAI API key not set")

// OpenAIClient implements Client against the OpenAI API
type OpenAIClient struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient creates a client with the given API key and model
func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if model == "" {
		model = DefaultModel
	}

	return &OpenAIClient{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: DefaultTimeout,
	}, nil
}

// SetTimeout overrides the per-call timeout
func (c *OpenAIClient) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

func (c *OpenAIClient) complete(ctx context.Context, system, prompt string, jsonMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{}
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: messages,
	}
	if jsonMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("completion call: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	return completion.Choices[0].Message.Content, nil
}

// SearchNews asks the model for current industry news as structured JSON
func (c *OpenAIClient) SearchNews(ctx context.Context, query string) ([]domain.NewsArticle, error) {
	system := "You are a news researcher. Respond with a JSON object " +
		`{"articles": [{"title", "summary", "url", "source", "category"}]}. ` +
		"Only include real, recent articles with their canonical URLs."

	content, err := c.complete(ctx, system, "Find recent news about: "+query, true)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Articles []struct {
			Title    string `json:"title"`
			Summary  string `json:"summary"`
			URL      string `json:"url"`
			Source   string `json:"source"`
			Category string `json:"category"`
		} `json:"articles"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("parsing news response: %w", err)
	}

	articles := make([]domain.NewsArticle, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.URL == "" {
			continue
		}
		articles = append(articles, domain.NewsArticle{
			Title:    a.Title,
			Summary:  a.Summary,
			URL:      a.URL,
			Source:   a.Source,
			Category: a.Category,
		})
	}
	return articles, nil
}

// GenerateBlog produces article text for a prompt under a persona system
// instruction
func (c *OpenAIClient) GenerateBlog(ctx context.Context, prompt, systemInstruction string) (string, error) {
	return c.complete(ctx, systemInstruction, prompt, false)
}

// ExtractMetadata derives title, excerpt and tags from generated text
func (c *OpenAIClient) ExtractMetadata(ctx context.Context, text string) (Metadata, error) {
	system := "Extract metadata from the article. Respond with a JSON object " +
		`{"title": string, "excerpt": string (max 2 sentences), "tags": [string]}.`

	content, err := c.complete(ctx, system, text, true)
	if err != nil {
		return Metadata{}, err
	}

	var meta Metadata
	if err := json.Unmarshal([]byte(content), &meta); err != nil {
		return Metadata{}, fmt.Errorf("parsing metadata response: %w", err)
	}
	return meta, nil
}

// ResearchTopic returns structured insights for a research query
func (c *OpenAIClient) ResearchTopic(ctx context.Context, query string) ([]domain.Insight, error) {
	system := "You are a research analyst. Respond with a JSON object " +
		`{"insights": [{"topic", "summary", "sources": [string]}]}.`

	content, err := c.complete(ctx, system, "Research this topic: "+query, true)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Insights []domain.Insight `json:"insights"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("parsing research response: %w", err)
	}
	return payload.Insights, nil
}
