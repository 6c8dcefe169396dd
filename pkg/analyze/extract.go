package analyze

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"site-cloner/pkg/config"
	"site-cloner/pkg/utils"
)

// extractedContent is the raw material pulled out of a rendered page.
type extractedContent struct {
	Title       string
	Description string
	HTML        string
	CSS         string
	JavaScript  string
	Screenshot  string // base64 PNG data URI
}

// pageSnapshotJS serializes the rendered document in one round trip:
// full HTML, title, meta description, inline stylesheet text, a computed
// style sample of the first 100 structural elements, and inline script text.
const pageSnapshotJS = `
() => {
	const styles = Array.from(document.querySelectorAll('style'))
		.map(s => s.textContent || '')
		.join('\n');

	const selector = 'body, header, nav, main, section, article, aside, footer, div, h1, h2, h3, h4, h5, h6, p, a, button';
	const computed = Array.from(document.querySelectorAll(selector))
		.slice(0, 100)
		.map(el => {
			const cs = window.getComputedStyle(el);
			return {
				selector: el.tagName.toLowerCase() + (el.className && typeof el.className === 'string' ? '.' + el.className.split(' ').join('.') : ''),
				color: cs.color,
				backgroundColor: cs.backgroundColor,
				fontSize: cs.fontSize,
				fontFamily: cs.fontFamily,
				fontWeight: cs.fontWeight,
				margin: cs.margin,
				padding: cs.padding,
				display: cs.display,
				position: cs.position
			};
		});

	const scripts = Array.from(document.querySelectorAll('script'))
		.map(s => s.textContent || '')
		.filter(t => t.trim().length > 0)
		.join('\n\n');

	const metaDesc = document.querySelector('meta[name="description"]');

	return {
		title: document.title || '',
		description: metaDesc ? (metaDesc.getAttribute('content') || '') : '',
		html: document.documentElement.outerHTML,
		inlineCss: styles,
		computedStyles: JSON.stringify(computed, null, 2),
		inlineJs: scripts
	};
}
`

// extractor drives one rendered page through navigation, settle, content
// serialization, and screenshot. Every failure is fatal for the analysis.
type extractor struct {
	cfg config.BrowserConfig
	log *logrus.Entry
}

func newExtractor(cfg config.BrowserConfig, logger *logrus.Entry) *extractor {
	return &extractor{cfg: cfg, log: logger.WithField("component", "extractor")}
}

// extract navigates the page to the URL and captures its content.
// The caller owns the page and closes it.
func (e *extractor) extract(ctx context.Context, page *rod.Page, url string) (*extractedContent, error) {
	log := e.log.WithField("url", url)

	// One deadline covers the navigation and the wait for network idle, so
	// a page that never stops issuing requests cannot stall the run.
	navCtx, cancel := context.WithTimeout(ctx, e.cfg.NavigationTimeout)
	defer cancel()

	nav := page.Context(navCtx)
	waitIdle := nav.WaitRequestIdle(time.Second, nil, nil, nil)
	if err := nav.Navigate(url); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrNavigation, err)
	}
	if err := awaitIdle(navCtx, waitIdle); err != nil {
		return nil, err
	}

	// Give late-loading scripts time to mutate the DOM before we read it
	select {
	case <-time.After(e.cfg.SettleDelay):
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", utils.ErrNavigation, ctx.Err())
	}

	res, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           pageSnapshotJS,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil || res == nil {
		return nil, fmt.Errorf("%w: page snapshot: %v", utils.ErrExtraction, err)
	}

	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: marshal snapshot: %v", utils.ErrExtraction, err)
	}

	var snapshot struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		HTML           string `json:"html"`
		InlineCSS      string `json:"inlineCss"`
		ComputedStyles string `json:"computedStyles"`
		InlineJS       string `json:"inlineJs"`
	}
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot JSON: %v", utils.ErrExtraction, err)
	}

	screenshot, err := page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrScreenshot, err)
	}

	log.WithFields(logrus.Fields{
		"html_bytes": len(snapshot.HTML),
		"css_bytes":  len(snapshot.InlineCSS),
		"js_bytes":   len(snapshot.InlineJS),
	}).Debug("Page content extracted")

	return &extractedContent{
		Title:       snapshot.Title,
		Description: snapshot.Description,
		HTML:        snapshot.HTML,
		CSS:         combineCSS(snapshot.InlineCSS, snapshot.ComputedStyles),
		JavaScript:  snapshot.InlineJS,
		Screenshot:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(screenshot),
	}, nil
}

// awaitIdle blocks on the idle wait and converts a deadline expiry into a
// navigation error. The wait func returns once the page goes quiet or its
// context ends, so checking the context afterwards distinguishes the two.
func awaitIdle(ctx context.Context, wait func()) error {
	wait()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: waiting for network idle: %v", utils.ErrNavigation, err)
	}
	return nil
}

// combineCSS appends the computed-style JSON snapshot to the inline
// stylesheet text under a marker comment.
func combineCSS(inline, computed string) string {
	if computed == "" {
		return inline
	}
	return inline + "\n/* Computed Styles */\n" + computed
}
