package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brandpulse/content-orchestrator/internal/domain"
	"github.com/brandpulse/content-orchestrator/internal/store"
)

// File is the on-disk seed format
type File struct {
	Company *companySeed `yaml:"company"`
	Writers []writerSeed `yaml:"writers"`
}

type companySeed struct {
	Name        string `yaml:"name"`
	Industry    string `yaml:"industry"`
	Description string `yaml:"description"`
	Audience    string `yaml:"audience"`
}

type writerSeed struct {
	Name        string   `yaml:"name"`
	Bio         string   `yaml:"bio"`
	Personality []string `yaml:"personality"`
	Tone        string   `yaml:"tone"`
	Voice       string   `yaml:"voice"`
	Model       string   `yaml:"model"`
	Temperature float64  `yaml:"temperature"`
	Default     bool     `yaml:"default"`
}

// Load parses a YAML seed file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses YAML seed data
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &f, nil
}

// Apply writes the seed data into the store. It is idempotent: writers
// are matched by name and existing rows are left alone, and company
// settings are only written when none have been saved yet.
func Apply(st *store.Store, f *File) (created int, err error) {
	existing, err := st.ListWriters()
	if err != nil {
		return 0, err
	}
	byName := make(map[string]bool, len(existing))
	for _, w := range existing {
		byName[w.Name] = true
	}

	for _, ws := range f.Writers {
		if ws.Name == "" || byName[ws.Name] {
			continue
		}
		w := &domain.Writer{
			Name:        ws.Name,
			Bio:         ws.Bio,
			Personality: ws.Personality,
			Style:       domain.WriterStyle{Tone: ws.Tone, Voice: ws.Voice},
			ModelConfig: domain.ModelConfig{Model: ws.Model, Temperature: ws.Temperature},
			IsDefault:   ws.Default,
		}
		if _, err := st.CreateWriter(w); err != nil {
			return created, fmt.Errorf("seeding writer %s: %w", ws.Name, err)
		}
		created++
	}

	if f.Company != nil {
		cs, err := st.GetCompanySettings()
		if err != nil {
			return created, err
		}
		if cs == nil || cs.Name == "" {
			err := st.SaveCompanySettings(&domain.CompanySettings{
				Name:        f.Company.Name,
				Industry:    f.Company.Industry,
				Description: f.Company.Description,
				Audience:    f.Company.Audience,
			})
			if err != nil {
				return created, fmt.Errorf("seeding company settings: %w", err)
			}
		}
	}

	return created, nil
}
