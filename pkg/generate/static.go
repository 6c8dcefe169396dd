package generate

import (
	"regexp"
	"strings"

	"site-cloner/pkg/models"
)

// The static variant republishes the extracted content directly; these
// patterns strip executable and noise content before doing so.
var (
	scriptTagPattern    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlCommentPattern  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentPattern  = regexp.MustCompile(`(?m)^\s*//.*$`)
	whitespaceRuns      = regexp.MustCompile(`\s+`)
)

// generateStatic produces the model-free HTML_CSS_JS result: the extracted
// content sanitized and laid out as exactly index.html, style.css, and
// script.js. No dependencies, no build commands.
func generateStatic(analysis *models.WebsiteAnalysis) *models.CodeGenerationResult {
	return &models.CodeGenerationResult{
		Files: []models.GeneratedFile{
			{Path: "index.html", Content: sanitizeHTML(analysis.HTML), Type: "file"},
			{Path: "style.css", Content: sanitizeCSS(analysis.CSS), Type: "file"},
			{Path: "script.js", Content: sanitizeJS(analysis.JavaScript), Type: "file"},
		},
		Instructions:  staticInstructions,
		Dependencies:  []string{},
		BuildCommands: []string{},
	}
}

// sanitizeHTML removes script blocks and comments, then collapses whitespace.
func sanitizeHTML(html string) string {
	out := scriptTagPattern.ReplaceAllString(html, "")
	out = htmlCommentPattern.ReplaceAllString(out, "")
	out = whitespaceRuns.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// sanitizeCSS removes block comments and collapses whitespace.
func sanitizeCSS(css string) string {
	out := blockCommentPattern.ReplaceAllString(css, "")
	out = whitespaceRuns.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// sanitizeJS removes both comment styles and collapses whitespace. Only full
// comment lines are stripped, so a // inside a string literal mid-line
// survives.
func sanitizeJS(js string) string {
	out := blockCommentPattern.ReplaceAllString(js, "")
	out = lineCommentPattern.ReplaceAllString(out, "")
	out = whitespaceRuns.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
