package models

import "time"

// Framework identifies a code-generation target.
type Framework string

const (
	FrameworkHTMLCSSJS Framework = "HTML_CSS_JS"
	FrameworkNextJS    Framework = "NEXTJS"
	FrameworkReact     Framework = "REACT"
	FrameworkVue       Framework = "VUE"
	FrameworkWordPress Framework = "WORDPRESS"
	FrameworkLaravel   Framework = "LARAVEL"
	FrameworkPHP       Framework = "PHP"
)

// AllFrameworks lists every supported generation target in a stable order.
var AllFrameworks = []Framework{
	FrameworkHTMLCSSJS,
	FrameworkNextJS,
	FrameworkReact,
	FrameworkVue,
	FrameworkWordPress,
	FrameworkLaravel,
	FrameworkPHP,
}

// IsValid returns true if the framework is a known generation target.
func (f Framework) IsValid() bool {
	for _, known := range AllFrameworks {
		if f == known {
			return true
		}
	}
	return false
}

// TechnologyStack describes the classified technology of an analyzed site.
type TechnologyStack struct {
	Framework string `json:"framework"`
	CMS       string `json:"cms,omitempty"`
	Language  string `json:"language"`
	BuildTool string `json:"buildTool,omitempty"`
	Server    string `json:"server,omitempty"`
}

// AnalysisMetadata holds auxiliary facts collected during the structural pass.
type AnalysisMetadata struct {
	Fonts      []string `json:"fonts"`
	Colors     []string `json:"colors"`
	Frameworks []string `json:"frameworks"`
	Libraries  []string `json:"libraries"`
}

// WebsiteAnalysis is the immutable snapshot produced once per analyzed URL.
// Once constructed it is never mutated; downstream generators read it only.
type WebsiteAnalysis struct {
	URL                string           `json:"url"`
	Title              string           `json:"title"`
	Description        string           `json:"description,omitempty"`
	HTML               string           `json:"html"`
	CSS                string           `json:"css"`
	JavaScript         string           `json:"javascript"`
	Images             []string         `json:"images"`
	Links              []string         `json:"links"`
	Screenshots        []string         `json:"screenshots"`
	DetectedTechnology TechnologyStack  `json:"detectedTechnology"`
	Metadata           AnalysisMetadata `json:"metadata"`
}

// GeneratedFile is one entry of a generated project tree.
// Path uniqueness is not enforced by the response parser; later entries with
// the same path coexist (a documented tolerance of the recovery parser).
type GeneratedFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Type    string `json:"type"` // "file" or "directory"
}

// CodeGenerationResult is the output of one generator invocation.
type CodeGenerationResult struct {
	Files         []GeneratedFile `json:"files"`
	Instructions  string          `json:"instructions"`
	Dependencies  []string        `json:"dependencies"`
	BuildCommands []string        `json:"buildCommands"`
}

// Project is the durable record for one clone request.
type Project struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	OriginalURL        string        `json:"original_url"`
	Status             ProjectStatus `json:"status"`
	DetectedTechnology string        `json:"detected_technology,omitempty"`
	ExtractedHTML      string        `json:"extracted_html,omitempty"`
	ExtractedCSS       string        `json:"extracted_css,omitempty"`
	ExtractedJS        string        `json:"extracted_js,omitempty"`
	Screenshots        []string      `json:"screenshots,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// GeneratedVersion is one persisted per-framework generation outcome.
type GeneratedVersion struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	Framework   Framework       `json:"framework"`
	Status      VersionStatus   `json:"status"`
	Files       []GeneratedFile `json:"files"`
	BuildSize   int             `json:"build_size"` // serialized byte length of Files
	GeneratedAt time.Time       `json:"generated_at"`
}

// ProgressUpdate is a partial progress record; zero-valued fields are left
// unchanged by the tracker's merge.
type ProgressUpdate struct {
	Status   ProjectStatus
	Step     string
	Progress int
	Message  string
	Details  map[string]any
}

// ProgressRecord is the transient, TTL-bounded snapshot for one project,
// distinct from the project's durable persisted status.
type ProgressRecord struct {
	Status    ProjectStatus  `json:"status"`
	Step      string         `json:"step"`
	Progress  int            `json:"progress"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
