package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Default()

	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("LLM.Model = %q, want gpt-4o-mini", cfg.LLM.Model)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("Web.Port = %d, want 8080", cfg.Web.Port)
	}
	if cfg.Web.Host != "127.0.0.1" {
		t.Errorf("Web.Host = %q, want 127.0.0.1", cfg.Web.Host)
	}
	if !cfg.Schedule.Enabled {
		t.Error("Schedule.Enabled should default to true")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	content := `
[general]
database_path = "/test/content.db"

[llm]
model = "gpt-4o"

[web]
port = 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.General.DatabasePath != "/test/content.db" {
		t.Errorf("DatabasePath = %q, want /test/content.db", cfg.General.DatabasePath)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("LLM.Model = %q, want gpt-4o", cfg.LLM.Model)
	}
	if cfg.Web.Port != 9000 {
		t.Errorf("Web.Port = %d, want 9000", cfg.Web.Port)
	}
	// Sections absent from the file keep their defaults
	if !cfg.Notifications.Desktop {
		t.Error("Notifications.Desktop should keep its default")
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("Web.Port = %d, want default 8080", cfg.Web.Port)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Web.Port = 9999
	cfg.Notifications.SlackWebhook = "https://hooks.slack.com/services/T/B/X"

	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Web.Port != 9999 {
		t.Errorf("Web.Port = %d, want 9999", loaded.Web.Port)
	}
	if loaded.Notifications.SlackWebhook != cfg.Notifications.SlackWebhook {
		t.Errorf("SlackWebhook = %q, want %q", loaded.Notifications.SlackWebhook, cfg.Notifications.SlackWebhook)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got := ExpandPath(tt.input)
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
