package generate

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"site-cloner/pkg/models"
)

// Prompt budget split across the embedded sections. The HTML dominates
// because it carries the structure the model must reproduce.
const (
	htmlBudgetShare    = 0.45
	cssBudgetShare     = 0.25
	jsBudgetShare      = 0.15
	outlineBudgetShare = 0.15
)

// buildPrompt assembles the single prompt for one framework generation.
// Extracted content is truncated to fit the configured token budget and a
// markdown outline of the page gives the model the content hierarchy even
// when the raw HTML had to be cut.
func buildPrompt(analysis *models.WebsiteAnalysis, spec frameworkSpec, tokenBudget int) string {
	htmlBudget := int(float64(tokenBudget) * htmlBudgetShare)
	cssBudget := int(float64(tokenBudget) * cssBudgetShare)
	jsBudget := int(float64(tokenBudget) * jsBudgetShare)
	outlineBudget := int(float64(tokenBudget) * outlineBudgetShare)

	var b strings.Builder
	b.WriteString(spec.persona)
	b.WriteString("\n\n")
	b.WriteString(spec.guidance)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Website to recreate:\nURL: %s\nTitle: %s\n", analysis.URL, analysis.Title)
	if analysis.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", analysis.Description)
	}
	fmt.Fprintf(&b, "Detected technology: %s (%s)\n", analysis.DetectedTechnology.Framework, analysis.DetectedTechnology.Language)
	if len(analysis.Metadata.Libraries) > 0 {
		fmt.Fprintf(&b, "Libraries in use: %s\n", strings.Join(analysis.Metadata.Libraries, ", "))
	}
	if len(analysis.Metadata.Fonts) > 0 {
		fmt.Fprintf(&b, "Fonts: %s\n", strings.Join(analysis.Metadata.Fonts, ", "))
	}

	if outline := contentOutline(analysis.HTML, outlineBudget); outline != "" {
		b.WriteString("\nContent outline:\n")
		b.WriteString(outline)
		b.WriteString("\n")
	}

	b.WriteString("\nExtracted HTML:\n```html\n")
	b.WriteString(truncateToTokens(analysis.HTML, htmlBudget))
	b.WriteString("\n```\n")

	if analysis.CSS != "" {
		b.WriteString("\nExtracted CSS:\n```css\n")
		b.WriteString(truncateToTokens(analysis.CSS, cssBudget))
		b.WriteString("\n```\n")
	}

	if analysis.JavaScript != "" {
		b.WriteString("\nExtracted JavaScript:\n```js\n")
		b.WriteString(truncateToTokens(analysis.JavaScript, jsBudget))
		b.WriteString("\n```\n")
	}

	b.WriteString("\nRespond with every project file in its own fenced code block. ")
	b.WriteString("Each fence must open with the file path, for example:\n")
	b.WriteString("```src/App.tsx\n...file content...\n```\n")
	b.WriteString("Do not include any prose outside the code blocks.")

	return b.String()
}

// contentOutline converts the page HTML into markdown so the model sees the
// text hierarchy compactly. Conversion failures just drop the outline.
func contentOutline(html string, tokenBudget int) string {
	if html == "" || tokenBudget <= 0 {
		return ""
	}
	converter := md.NewConverter("", true, nil)
	outline, err := converter.ConvertString(html)
	if err != nil {
		return ""
	}
	return truncateToTokens(strings.TrimSpace(outline), tokenBudget)
}
