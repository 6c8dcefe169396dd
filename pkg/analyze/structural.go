package analyze

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"site-cloner/pkg/models"
	"site-cloner/pkg/utils"
)

// googleFontsFamily pulls family names out of a Google Fonts stylesheet URL.
// Handles both "family=Name" and "family=Name:wght@400" forms.
var googleFontsFamily = regexp.MustCompile(`family=([^&:]+)`)

// libraryMarkers maps lowercase substrings of the document to display names.
// Checked in this order so the output is stable across runs.
var libraryMarkers = []struct {
	marker string
	name   string
}{
	{"jquery", "jQuery"},
	{"bootstrap", "Bootstrap"},
	{"react", "React"},
	{"vue", "Vue.js"},
	{"angular", "Angular"},
	{"tailwind", "Tailwind CSS"},
}

// structuralFacts is the output of the goquery pass over the rendered HTML.
type structuralFacts struct {
	Images    []string
	Links     []string
	Fonts     []string
	Libraries []string
}

// collectStructuralFacts parses the rendered HTML and gathers image sources,
// anchor targets, Google Fonts families, and recognizable library names.
// Order follows document order for images and links.
func collectStructuralFacts(html string) (*structuralFacts, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: HTML parse: %v", utils.ErrParsing, err)
	}

	facts := &structuralFacts{
		Images:    []string{},
		Links:     []string{},
		Fonts:     []string{},
		Libraries: []string{},
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			facts.Images = append(facts.Images, src)
		}
	})

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			facts.Links = append(facts.Links, href)
		}
	})

	seenFonts := make(map[string]bool)
	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.Contains(href, "fonts.googleapis.com") {
			return
		}
		for _, match := range googleFontsFamily.FindAllStringSubmatch(href, -1) {
			family := strings.ReplaceAll(match[1], "+", " ")
			if family != "" && !seenFonts[family] {
				seenFonts[family] = true
				facts.Fonts = append(facts.Fonts, family)
			}
		}
	})

	lower := strings.ToLower(html)
	for _, lib := range libraryMarkers {
		if strings.Contains(lower, lib.marker) {
			facts.Libraries = append(facts.Libraries, lib.name)
		}
	}

	return facts, nil
}

// metadata converts the collected facts into the analysis metadata shape.
// Frameworks mirrors the classified framework, so it holds at most one
// element and always agrees with DetectedTechnology. Colors stay empty; the
// computed-style snapshot in the extracted CSS carries the color information
// instead.
func (f *structuralFacts) metadata(stack models.TechnologyStack) models.AnalysisMetadata {
	frameworks := []string{}
	if stack.Framework != "" {
		frameworks = append(frameworks, stack.Framework)
	}
	return models.AnalysisMetadata{
		Fonts:      f.Fonts,
		Colors:     []string{},
		Frameworks: frameworks,
		Libraries:  f.Libraries,
	}
}
