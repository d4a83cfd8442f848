package domain

import "time"

// ArticleStatus tracks whether a fetched article has been used for a blog yet
type ArticleStatus string

const (
	ArticleNew  ArticleStatus = "new"
	ArticleUsed ArticleStatus = "used"
)

// NewsArticle is a fetched news item. URL is the dedupe key: re-running a
// fetch must never create a second row for the same source URL.
type NewsArticle struct {
	ID        int64
	Title     string
	Summary   string
	URL       string
	Source    string
	Category  string
	Status    ArticleStatus
	CreatedAt time.Time
}

// BlogStatus represents the publication state of a blog draft
type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
)

// Blog is a generated blog post
type Blog struct {
	ID        int64
	Title     string
	Excerpt   string
	Content   string
	Tags      []string // stored as a JSON text column
	WriterID  *int64
	Status    BlogStatus
	CreatedAt time.Time
}

// WriterStyle describes the authoring voice of a persona
type WriterStyle struct {
	Tone  string `json:"tone"`
	Voice string `json:"voice"`
}

// ModelConfig holds per-writer LLM parameters
type ModelConfig struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

// Writer is an AI authoring persona. Personality, Style and ModelConfig are
// stored as JSON text columns; malformed values decode to typed defaults.
type Writer struct {
	ID          int64
	Name        string
	Bio         string
	Personality []string
	Style       WriterStyle
	ModelConfig ModelConfig
	IsDefault   bool
	CreatedAt   time.Time
}

// PlaceholderWriter returns the hardcoded persona used when no writer rows
// exist. It is never persisted.
func PlaceholderWriter() *Writer {
	return &Writer{
		Name:        "Staff Writer",
		Bio:         "General-purpose content writer",
		Personality: []string{"clear", "neutral"},
		Style:       WriterStyle{Tone: "informative", Voice: "third person"},
		ModelConfig: ModelConfig{Model: "gpt-4o-mini", Temperature: 0.7},
	}
}

// Insight is a single research finding
type Insight struct {
	Topic   string   `json:"topic"`
	Summary string   `json:"summary"`
	Sources []string `json:"sources,omitempty"`
}

// ResearchTask records a completed research run and its findings
type ResearchTask struct {
	ID        int64
	Query     string
	Results   []Insight // JSON text column
	WriterID  *int64
	CreatedAt time.Time
}

// FeatureAnnouncement is a generated product announcement
type FeatureAnnouncement struct {
	ID        int64
	Title     string
	Facts     string
	Content   string
	WriterID  *int64
	CreatedAt time.Time
}

// CompanySettings holds the brand configuration (single row)
type CompanySettings struct {
	Name        string
	Industry    string
	Description string
	Audience    string
	UpdatedAt   time.Time
}

// AgentSettings holds agent behavior configuration (single row)
type AgentSettings struct {
	AutoFetch   bool
	FetchCron   string
	MaxArticles int
	UpdatedAt   time.Time
}
