package config

import (
	"fmt"
	"time"

	"site-cloner/pkg/models"
	"site-cloner/pkg/utils"
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// StateDir
	if c.StateDir == "" {
		warnings = append(warnings, "state_dir is empty, defaulting to './cloner_state'")
		c.StateDir = "./cloner_state"
	}

	// OutputBaseDir
	if c.OutputBaseDir == "" {
		warnings = append(warnings, "output_base_dir is empty, defaulting to './cloned_sites'")
		c.OutputBaseDir = "./cloned_sites"
	}

	// Frameworks
	if len(c.Frameworks) == 0 {
		warnings = append(warnings, "frameworks not specified, defaulting to [HTML_CSS_JS, NEXTJS, REACT]")
		c.Frameworks = []string{
			string(models.FrameworkHTMLCSSJS),
			string(models.FrameworkNextJS),
			string(models.FrameworkReact),
		}
	}
	for _, f := range c.Frameworks {
		if !models.Framework(f).IsValid() {
			return warnings, fmt.Errorf("%w: unknown framework %q", utils.ErrConfigValidation, f)
		}
	}

	// MaxConcurrentClones
	if c.MaxConcurrentClones <= 0 {
		warnings = append(warnings, "max_concurrent_clones should be > 0, defaulting to 2")
		c.MaxConcurrentClones = 2
	}

	// ProgressTTL
	if c.ProgressTTL <= 0 {
		c.ProgressTTL = 1 * time.Hour
	}

	// Browser defaults
	if c.Browser.ViewportWidth <= 0 {
		c.Browser.ViewportWidth = 1920
	}
	if c.Browser.ViewportHeight <= 0 {
		c.Browser.ViewportHeight = 1080
	}
	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = DefaultUserAgent
	}
	if c.Browser.NavigationTimeout < 60*time.Second {
		if c.Browser.NavigationTimeout > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"navigation_timeout (%v) below minimum, raising to 60s", c.Browser.NavigationTimeout))
		}
		c.Browser.NavigationTimeout = 60 * time.Second
	}
	if c.Browser.SettleDelay <= 0 {
		c.Browser.SettleDelay = 3 * time.Second
	}

	// Model defaults
	if c.Model.Model == "" {
		c.Model.Model = "gemini-1.5-flash"
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"model temperature (%v) out of range [0,1], defaulting to 0.3", c.Model.Temperature))
		c.Model.Temperature = 0.3
	}
	if c.Model.Temperature == 0 {
		c.Model.Temperature = 0.3
	}
	if c.Model.MaxOutputTokens <= 0 {
		c.Model.MaxOutputTokens = 8192
	}
	if c.Model.PromptTokenBudget <= 0 {
		c.Model.PromptTokenBudget = 24000
	}
	if c.Model.GenerationTimeout <= 0 {
		c.Model.GenerationTimeout = 5 * time.Minute
	}

	return warnings, nil
}
