package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Source.PageSize != 50 {
		t.Errorf("expected PageSize=50, got %d", cfg.Source.PageSize)
	}

	if cfg.Scoring.DefaultWeights.Sum() != 8 {
		t.Errorf("expected default weights to sum to 8, got %v", cfg.Scoring.DefaultWeights.Sum())
	}

	if cfg.Notify.ChannelPrefix != "jobradar" {
		t.Errorf("expected ChannelPrefix=jobradar, got %s", cfg.Notify.ChannelPrefix)
	}

	if !cfg.Scheduler.RunOnStart {
		t.Error("expected RunOnStart=true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "missing database path",
			modify: func(c *Config) {
				c.Database.Path = ""
			},
			wantErr: true,
		},
		{
			name: "relative base url",
			modify: func(c *Config) {
				c.Source.BaseURL = "jobs.local"
			},
			wantErr: true,
		},
		{
			name: "page size too large",
			modify: func(c *Config) {
				c.Source.PageSize = 1000
			},
			wantErr: true,
		},
		{
			name: "zero max pages",
			modify: func(c *Config) {
				c.Source.MaxPages = 0
			},
			wantErr: true,
		},
		{
			name: "negative weight",
			modify: func(c *Config) {
				c.Scoring.DefaultWeights.Geo = -1
			},
			wantErr: true,
		},
		{
			name: "zero weights are allowed",
			modify: func(c *Config) {
				c.Scoring.DefaultWeights.Geo = 0
			},
			wantErr: false,
		},
		{
			name: "min score out of range",
			modify: func(c *Config) {
				c.Scoring.DefaultMinScore = 101
			},
			wantErr: true,
		},
		{
			name: "unknown timezone",
			modify: func(c *Config) {
				c.Scheduler.Timezone = "Mars/Olympus"
			},
			wantErr: true,
		},
		{
			name: "invalid mcp transport",
			modify: func(c *Config) {
				c.MCP.Transport = "http"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input    string
		expected string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		result, err := expandPath(tt.input)
		if err != nil {
			t.Errorf("expandPath(%q) error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[database]
path = "` + filepath.Join(dir, "radar.db") + `"

[source]
page_size = 25
client_id = "cli"
token_url = "https://auth.example.dev/token"

[scoring.default_weights]
freshness = 3
stack = 0
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvRedisURL+"=redis://localhost:6379/2\n"), 0600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv(EnvClientSecret, "s3cret")
	t.Setenv(EnvRedisURL, "")
	os.Unsetenv(EnvRedisURL)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Source.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.Source.PageSize)
	}
	if cfg.Source.MaxPages != 4 {
		t.Errorf("MaxPages = %d, want default 4", cfg.Source.MaxPages)
	}
	if cfg.Scoring.DefaultWeights.Freshness != 3 || cfg.Scoring.DefaultWeights.Stack != 0 {
		t.Errorf("unexpected weights: %+v", cfg.Scoring.DefaultWeights)
	}
	if !cfg.Source.UsesOAuth() {
		t.Error("expected client credentials to be configured from env")
	}
	if cfg.Notify.RedisURL != "redis://localhost:6379/2" {
		t.Errorf("RedisURL = %q, want value from .env", cfg.Notify.RedisURL)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := "[database]\npath = \"" + filepath.Join(dir, "radar.db") + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("JOBRADAR-REDIS-URL=redis://localhost:6379\n"), 0600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for malformed .env")
	}
	if !strings.Contains(err.Error(), envPath) {
		t.Errorf("error %q should name %s", err, envPath)
	}
}

func TestSourceTimeout(t *testing.T) {
	cfg := Default()

	if got := cfg.Source.Timeout(); got != 20*time.Second {
		t.Errorf("Timeout() = %v, want 20s", got)
	}
}

func TestSchedulerLocation(t *testing.T) {
	s := SchedulerConfig{Timezone: "UTC"}
	if got := s.Location(); got.String() != "UTC" {
		t.Errorf("Location() = %v, want UTC", got)
	}

	s.Timezone = "bogus/zone"
	if got := s.Location(); got != time.Local {
		t.Errorf("Location() with bad zone = %v, want Local", got)
	}
}
