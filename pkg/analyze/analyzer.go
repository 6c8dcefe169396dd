// Package analyze turns a URL into an immutable WebsiteAnalysis snapshot
// using a shared headless browser.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"

	"site-cloner/pkg/browser"
	"site-cloner/pkg/config"
	"site-cloner/pkg/models"
	"site-cloner/pkg/utils"
)

// runtimeGlobalsJS probes the live page for well-known framework globals.
const runtimeGlobalsJS = `
() => ({
	jquery: typeof window.$ !== 'undefined',
	react: typeof window.React !== 'undefined',
	vue: typeof window.Vue !== 'undefined',
	angular: typeof window.angular !== 'undefined'
})
`

// Analyzer renders a URL in the shared browser and produces the analysis
// snapshot consumed by the code generators.
type Analyzer struct {
	browser       *browser.Manager
	extractor     *extractor
	robots        *robotsGate
	respectRobots bool
	log           *logrus.Entry
}

// NewAnalyzer wires an analyzer around the shared browser manager.
func NewAnalyzer(mgr *browser.Manager, cfg *config.AppConfig, logger *logrus.Entry) *Analyzer {
	return &Analyzer{
		browser:       mgr,
		extractor:     newExtractor(cfg.Browser, logger),
		robots:        newRobotsGate(cfg.Browser.UserAgent, logger),
		respectRobots: cfg.RespectRobots,
		log:           logger.WithField("component", "analyzer"),
	}
}

// AnalyzeWebsite renders the URL and returns the full analysis snapshot.
// The returned value is never mutated afterwards; generators only read it.
// The shared browser is left running for subsequent generations and is
// released by the caller once the whole run is over.
func (a *Analyzer) AnalyzeWebsite(ctx context.Context, rawURL string) (*models.WebsiteAnalysis, error) {
	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf("%w: invalid URL %q", utils.ErrParsing, rawURL)
	}
	log := a.log.WithField("url", rawURL)

	if a.respectRobots {
		if err := a.robots.check(ctx, target); err != nil {
			return nil, err
		}
	}

	page, err := a.browser.NewPage()
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Error closing analysis page")
		}
	}()

	content, err := a.extractor.extract(ctx, page, rawURL)
	if err != nil {
		return nil, err
	}

	stack := DetectTechnology(content.HTML)
	stack = a.upgradeFromRuntime(ctx, page, stack, log)

	facts, err := collectStructuralFacts(content.HTML)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"framework": stack.Framework,
		"language":  stack.Language,
		"images":    len(facts.Images),
		"links":     len(facts.Links),
	}).Info("Website analysis complete")

	return &models.WebsiteAnalysis{
		URL:                rawURL,
		Title:              content.Title,
		Description:        content.Description,
		HTML:               content.HTML,
		CSS:                content.CSS,
		JavaScript:         content.JavaScript,
		Images:             facts.Images,
		Links:              facts.Links,
		Screenshots:        []string{content.Screenshot},
		DetectedTechnology: stack,
		Metadata:           facts.metadata(stack),
	}, nil
}

// upgradeFromRuntime refines a fallback classification using live page
// globals. Probe failures never fail the analysis; the static result stands.
func (a *Analyzer) upgradeFromRuntime(ctx context.Context, page *rod.Page, stack models.TechnologyStack, log *logrus.Entry) models.TechnologyStack {
	if stack.Framework != fallbackStack.Framework {
		return stack
	}

	res, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           runtimeGlobalsJS,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil || res == nil {
		log.WithError(err).Debug("Runtime globals probe failed, keeping static classification")
		return stack
	}

	raw, err := res.Value.MarshalJSON()
	if err != nil {
		log.WithError(err).Debug("Runtime globals marshal failed, keeping static classification")
		return stack
	}

	var globals RuntimeGlobals
	if err := json.Unmarshal(raw, &globals); err != nil {
		log.WithError(err).Debug("Runtime globals decode failed, keeping static classification")
		return stack
	}

	return UpgradeFromGlobals(stack, globals)
}

// ReleaseBrowser shuts down the shared browser after a full run.
func (a *Analyzer) ReleaseBrowser() {
	a.browser.Release()
}
