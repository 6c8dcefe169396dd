package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"site-cloner/pkg/models"
)

// BrowserConfig holds settings for the shared headless browser
type BrowserConfig struct {
	Headless           bool          `yaml:"headless"`
	NoSandbox          bool          `yaml:"no_sandbox,omitempty"`          // Required inside most containers
	ViewportWidth      int           `yaml:"viewport_width,omitempty"`
	ViewportHeight     int           `yaml:"viewport_height,omitempty"`
	UserAgent          string        `yaml:"user_agent,omitempty"`
	NavigationTimeout  time.Duration `yaml:"navigation_timeout,omitempty"`  // Waiting for network idle
	SettleDelay        time.Duration `yaml:"settle_delay,omitempty"`        // Extra wait for late-loading scripts
}

// ModelConfig holds settings for the generative model client
type ModelConfig struct {
	APIKey            string        `yaml:"api_key,omitempty"` // Falls back to GEMINI_API_KEY env var
	Model             string        `yaml:"model,omitempty"`
	Temperature       float64       `yaml:"temperature,omitempty"`
	MaxOutputTokens   int           `yaml:"max_output_tokens,omitempty"`
	PromptTokenBudget int           `yaml:"prompt_token_budget,omitempty"` // Extracted content is truncated to fit
	GenerationTimeout time.Duration `yaml:"generation_timeout,omitempty"`  // Per-framework model call timeout
}

// AppConfig holds the global application configuration
type AppConfig struct {
	Browser             BrowserConfig `yaml:"browser,omitempty"`
	Model               ModelConfig   `yaml:"model,omitempty"`
	StateDir            string        `yaml:"state_dir"`
	OutputBaseDir       string        `yaml:"output_base_dir,omitempty"`
	Frameworks          []string      `yaml:"frameworks,omitempty"` // Generation targets per clone run
	MaxConcurrentClones int64         `yaml:"max_concurrent_clones,omitempty"`
	ProgressTTL         time.Duration `yaml:"progress_ttl,omitempty"` // Stale progress entries older than this are evicted
	RespectRobots       bool          `yaml:"respect_robots,omitempty"`
}

// DefaultUserAgent is the desktop Chrome identity presented to analyzed sites.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// LoadConfig reads and unmarshals the YAML config file at the given path
func LoadConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return &cfg, nil
}

// ResolveAPIKey returns the configured model API key, falling back to the
// GEMINI_API_KEY environment variable
func (c *AppConfig) ResolveAPIKey() string {
	if c.Model.APIKey != "" {
		return c.Model.APIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}

// FrameworkTargets converts the configured framework strings into typed tags
func (c *AppConfig) FrameworkTargets() []models.Framework {
	targets := make([]models.Framework, 0, len(c.Frameworks))
	for _, f := range c.Frameworks {
		targets = append(targets, models.Framework(f))
	}
	return targets
}
