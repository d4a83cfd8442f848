package prompts

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Loader manages prompt templates with override support.
type Loader struct {
	overrideDirs []string // Directories to check for overrides (in priority order)
	cache        map[string]*template.Template
	metaCache    map[string]*TemplateMeta
	mu           sync.RWMutex
}

// TemplateMeta holds frontmatter metadata for prompt templates.
type TemplateMeta struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// NewLoader creates a loader with the given override directories.
// Directories are checked in order; first match wins.
func NewLoader(overrideDirs ...string) *Loader {
	return &Loader{
		overrideDirs: overrideDirs,
		cache:        make(map[string]*template.Template),
		metaCache:    make(map[string]*TemplateMeta),
	}
}

// DefaultLoader creates a loader that checks the user config directory
// (~/.config/content-orchestrator/prompts/) before the embedded set.
func DefaultLoader() *Loader {
	home, _ := os.UserHomeDir()
	return NewLoader(filepath.Join(home, ".config", "content-orchestrator", "prompts"))
}

// loadContent loads raw content from override dirs or embedded FS.
func (l *Loader) loadContent(path string) ([]byte, error) {
	// Check override directories first
	for _, dir := range l.overrideDirs {
		fullPath := filepath.Join(dir, path)
		if data, err := os.ReadFile(fullPath); err == nil {
			return data, nil
		}
	}

	// Fall back to embedded
	return fs.ReadFile(embeddedFS, path)
}

// parseFrontmatter splits content into frontmatter and body.
func parseFrontmatter(content []byte) (*TemplateMeta, string, error) {
	str := string(content)

	if !strings.HasPrefix(str, "---\n") {
		return nil, str, nil // No frontmatter
	}

	end := strings.Index(str[4:], "\n---\n")
	if end == -1 {
		return nil, str, nil // Malformed, treat as no frontmatter
	}

	frontmatter := str[4 : 4+end]
	body := str[4+end+5:] // Skip closing "---\n"

	var meta TemplateMeta
	if err := yaml.Unmarshal([]byte(frontmatter), &meta); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}

	return &meta, body, nil
}

// LoadTemplate loads and parses a template by path (e.g., "agents/blog.md").
func (l *Loader) LoadTemplate(path string) (*template.Template, *TemplateMeta, error) {
	l.mu.RLock()
	if tmpl, ok := l.cache[path]; ok {
		meta := l.metaCache[path]
		l.mu.RUnlock()
		return tmpl, meta, nil
	}
	l.mu.RUnlock()

	content, err := l.loadContent(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}

	meta, body, err := parseFrontmatter(content)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	tmpl, err := template.New(path).Parse(body)
	if err != nil {
		return nil, nil, fmt.Errorf("compile template %s: %w", path, err)
	}

	l.mu.Lock()
	l.cache[path] = tmpl
	l.metaCache[path] = meta
	l.mu.Unlock()

	return tmpl, meta, nil
}

// Execute loads and executes a template with the given data.
func (l *Loader) Execute(path string, data interface{}) (string, error) {
	tmpl, _, err := l.LoadTemplate(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute %s: %w", path, err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// SystemData holds template variables for the persona system prompt.
type SystemData struct {
	WriterName  string
	Bio         string
	Personality []string
	Tone        string
	Voice       string
	CompanyName string
	Industry    string
	Audience    string
}

// SourceItem is one news article feeding a blog prompt.
type SourceItem struct {
	Title   string
	Summary string
}

// BlogData holds template variables for the blog synthesis prompt.
type BlogData struct {
	Sources []SourceItem
}

// AnnouncementData holds template variables for the announcement prompt.
type AnnouncementData struct {
	Title string
	Facts string
}

// BuildSystemPrompt renders the persona system prompt.
func (l *Loader) BuildSystemPrompt(data SystemData) (string, error) {
	return l.Execute("agents/system.md", data)
}

// BuildBlogPrompt renders the blog synthesis prompt.
func (l *Loader) BuildBlogPrompt(data BlogData) (string, error) {
	return l.Execute("agents/blog.md", data)
}

// BuildAnnouncementPrompt renders the announcement prompt.
func (l *Loader) BuildAnnouncementPrompt(data AnnouncementData) (string, error) {
	return l.Execute("agents/announcement.md", data)
}

// ClearCache clears the template cache (useful for development/testing).
func (l *Loader) ClearCache() {
	l.mu.Lock()
	l.cache = make(map[string]*template.Template)
	l.metaCache = make(map[string]*TemplateMeta)
	l.mu.Unlock()
}

// Global default loader (initialized lazily)
var (
	defaultLoader     *Loader
	defaultLoaderOnce sync.Once
)

// GetDefaultLoader returns the global default loader.
func GetDefaultLoader() *Loader {
	defaultLoaderOnce.Do(func() {
		defaultLoader = DefaultLoader()
	})
	return defaultLoader
}

// SetDefaultLoader allows overriding the default loader (for testing or custom config).
func SetDefaultLoader(loader *Loader) {
	defaultLoader = loader
}
