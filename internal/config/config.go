package config

import (
	"time"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// Environment variables holding secrets
const (
	EnvClientSecret = "JOBRADAR_CLIENT_SECRET"
	EnvRedisURL     = "JOBRADAR_REDIS_URL"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Source    SourceConfig    `toml:"source"`
	Scoring   ScoringConfig   `toml:"scoring"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Notify    NotifyConfig    `toml:"notify"`
	MCP       MCPConfig       `toml:"mcp"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// SourceConfig contains settings for the job listings API
type SourceConfig struct {
	BaseURL        string   `toml:"base_url"`
	JobsPath       string   `toml:"jobs_path"`
	TokenURL       string   `toml:"token_url"`
	ClientID       string   `toml:"client_id"`
	Scopes         []string `toml:"scopes"`
	PageSize       int      `toml:"page_size"`
	MaxPages       int      `toml:"max_pages"`
	TimeoutSeconds int      `toml:"timeout_seconds"`

	// Client secret is read from JOBRADAR_CLIENT_SECRET
	ClientSecret string `toml:"-"`
}

// Timeout returns the request timeout as a duration
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// UsesOAuth reports whether client credentials are configured
func (s SourceConfig) UsesOAuth() bool {
	return s.TokenURL != "" && s.ClientID != "" && s.ClientSecret != ""
}

// ScoringConfig contains defaults applied to newly created radars
type ScoringConfig struct {
	DefaultWeights  radar.Weights `toml:"default_weights"`
	DefaultMinScore int           `toml:"default_min_score"`
}

// SchedulerConfig contains settings for `jobradar watch`
type SchedulerConfig struct {
	Timezone   string `toml:"timezone"`
	RunOnStart bool   `toml:"run_on_start"`
	FetchFirst bool   `toml:"fetch_first"`
}

// Location returns the scheduler's time zone, falling back to local time
func (s SchedulerConfig) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// NotifyConfig contains match notification settings
type NotifyConfig struct {
	Log           bool   `toml:"log"`
	ChannelPrefix string `toml:"channel_prefix"`

	// Redis URL is read from JOBRADAR_REDIS_URL
	RedisURL string `toml:"-"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/jobradar/jobradar.db",
		},
		Source: SourceConfig{
			BaseURL:        "https://api.example-jobs.dev",
			JobsPath:       "/v1/jobs",
			Scopes:         []string{"jobs:read"},
			PageSize:       50,
			MaxPages:       4,
			TimeoutSeconds: 20,
		},
		Scoring: ScoringConfig{
			DefaultWeights:  radar.DefaultWeights(),
			DefaultMinScore: 0,
		},
		Scheduler: SchedulerConfig{
			RunOnStart: true,
			FetchFirst: false,
		},
		Notify: NotifyConfig{
			Log:           true,
			ChannelPrefix: "jobradar",
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}
