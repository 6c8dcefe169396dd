package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-cloner/pkg/models"
	"site-cloner/pkg/utils"
)

func TestValidateAppliesDefaults(t *testing.T) {
	cfg := &AppConfig{}
	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.NotEmpty(t, warnings)

	assert.Equal(t, "./cloner_state", cfg.StateDir)
	assert.Equal(t, "./cloned_sites", cfg.OutputBaseDir)
	assert.Equal(t, []string{"HTML_CSS_JS", "NEXTJS", "REACT"}, cfg.Frameworks)
	assert.Equal(t, int64(2), cfg.MaxConcurrentClones)
	assert.Equal(t, 1*time.Hour, cfg.ProgressTTL)
	assert.Equal(t, 1920, cfg.Browser.ViewportWidth)
	assert.Equal(t, 1080, cfg.Browser.ViewportHeight)
	assert.Equal(t, DefaultUserAgent, cfg.Browser.UserAgent)
	assert.Equal(t, 60*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, 3*time.Second, cfg.Browser.SettleDelay)
	assert.Equal(t, "gemini-1.5-flash", cfg.Model.Model)
	assert.InDelta(t, 0.3, cfg.Model.Temperature, 1e-9)
	assert.Equal(t, 8192, cfg.Model.MaxOutputTokens)
	assert.Equal(t, 5*time.Minute, cfg.Model.GenerationTimeout)
}

func TestValidateRaisesLowNavigationTimeout(t *testing.T) {
	cfg := &AppConfig{Browser: BrowserConfig{NavigationTimeout: 10 * time.Second}}
	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.Browser.NavigationTimeout)

	found := false
	for _, w := range warnings {
		if strings.Contains(w, "navigation_timeout") {
			found = true
		}
	}
	assert.True(t, found, "expected a navigation_timeout warning")
}

func TestValidateRejectsUnknownFramework(t *testing.T) {
	cfg := &AppConfig{Frameworks: []string{"NEXTJS", "DJANGO"}}
	_, err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrConfigValidation)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
state_dir: /tmp/state
frameworks:
  - HTML_CSS_JS
  - VUE
model:
  model: gemini-1.5-pro
  temperature: 0.5
browser:
  headless: true
  navigation_timeout: 90s
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/state", cfg.StateDir)
	assert.Equal(t, "gemini-1.5-pro", cfg.Model.Model)
	assert.Equal(t, 90*time.Second, cfg.Browser.NavigationTimeout)
	assert.True(t, cfg.Browser.Headless)

	_, err = cfg.Validate()
	require.NoError(t, err)
	assert.Equal(t, []models.Framework{models.FrameworkHTMLCSSJS, models.FrameworkVue}, cfg.FrameworkTargets())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("config value wins", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		cfg := &AppConfig{Model: ModelConfig{APIKey: "cfg-key"}}
		assert.Equal(t, "cfg-key", cfg.ResolveAPIKey())
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		cfg := &AppConfig{}
		assert.Equal(t, "env-key", cfg.ResolveAPIKey())
	})
}
