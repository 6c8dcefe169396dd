package analyze

import (
	"strings"

	"site-cloner/pkg/models"
)

// signature maps raw-HTML markers to a classified stack. Order matters:
// the first matching entry wins, so CMS markers sit above the SPA
// frameworks they are often built with.
type signature struct {
	markers []string
	stack   models.TechnologyStack
}

var signatures = []signature{
	{[]string{"wp-content", "wordpress"}, models.TechnologyStack{Framework: "WordPress", CMS: "WordPress", Language: "PHP"}},
	{[]string{"_next", "__NEXT_DATA__"}, models.TechnologyStack{Framework: "Next.js", Language: "JavaScript", BuildTool: "Next.js"}},
	{[]string{"react", "ReactDOM"}, models.TechnologyStack{Framework: "React", Language: "JavaScript"}},
	{[]string{"vue", "Vue"}, models.TechnologyStack{Framework: "Vue.js", Language: "JavaScript"}},
	{[]string{"angular", "ng-"}, models.TechnologyStack{Framework: "Angular", Language: "TypeScript"}},
	{[]string{"laravel", "csrf-token"}, models.TechnologyStack{Framework: "Laravel", Language: "PHP"}},
}

// fallbackStack is the classification when no marker matches.
var fallbackStack = models.TechnologyStack{Framework: "HTML/CSS/JS", Language: "JavaScript"}

// DetectTechnology classifies the technology stack from raw page HTML.
// Pure function of its input: same HTML, same result.
func DetectTechnology(html string) models.TechnologyStack {
	for _, sig := range signatures {
		for _, marker := range sig.markers {
			if strings.Contains(html, marker) {
				return sig.stack
			}
		}
	}
	return fallbackStack
}

// RuntimeGlobals reports which well-known framework globals were present in
// the live page at analysis time.
type RuntimeGlobals struct {
	JQuery  bool `json:"jquery"`
	React   bool `json:"react"`
	Vue     bool `json:"vue"`
	Angular bool `json:"angular"`
}

// UpgradeFromGlobals refines the fallback classification using runtime
// globals. A static marker match always wins; only the generic
// "HTML/CSS/JS" label is ever upgraded. jQuery presence is recorded by the
// structural pass and never changes the framework.
func UpgradeFromGlobals(stack models.TechnologyStack, globals RuntimeGlobals) models.TechnologyStack {
	if stack.Framework != fallbackStack.Framework {
		return stack
	}
	switch {
	case globals.React:
		return models.TechnologyStack{Framework: "React", Language: "JavaScript"}
	case globals.Vue:
		return models.TechnologyStack{Framework: "Vue.js", Language: "JavaScript"}
	case globals.Angular:
		return models.TechnologyStack{Framework: "Angular", Language: "TypeScript"}
	}
	return stack
}
