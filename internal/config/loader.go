package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'jobradar config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Secrets may live in a .env next to the config file
	envPath := filepath.Join(filepath.Dir(expandedPath), ".env")
	if err := loadDotEnv(envPath); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
	}
	cfg.applyEnv()

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads variables from path without overriding the environment.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// applyEnv copies secrets from the environment
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvClientSecret); v != "" {
		c.Source.ClientSecret = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Notify.RedisURL = v
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	// Source validation
	if c.Source.BaseURL != "" {
		if u, err := url.Parse(c.Source.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("source.base_url must be an absolute URL, got '%s'", c.Source.BaseURL))
		}
	}
	if c.Source.PageSize < 1 || c.Source.PageSize > 500 {
		errs = append(errs, errors.New("source.page_size must be between 1 and 500"))
	}
	if c.Source.MaxPages < 1 {
		errs = append(errs, errors.New("source.max_pages must be at least 1"))
	}
	if c.Source.TimeoutSeconds < 1 {
		errs = append(errs, errors.New("source.timeout_seconds must be at least 1"))
	}

	// Scoring validation
	for _, key := range c.Scoring.DefaultWeights.Negative() {
		errs = append(errs, fmt.Errorf("scoring.default_weights.%s must not be negative", key))
	}
	if c.Scoring.DefaultMinScore < 0 || c.Scoring.DefaultMinScore > 100 {
		errs = append(errs, errors.New("scoring.default_min_score must be between 0 and 100"))
	}

	if c.Scheduler.Timezone != "" {
		if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("scheduler.timezone is invalid: %w", err))
		}
	}

	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureDirectories creates the directory holding the database
func (c *Config) EnsureDirectories() error {
	dir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
