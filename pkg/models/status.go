package models

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	StatusPending    ProjectStatus = "PENDING"
	StatusAnalyzing  ProjectStatus = "ANALYZING"
	StatusAnalyzed   ProjectStatus = "ANALYZED"
	StatusGenerating ProjectStatus = "GENERATING"
	StatusCompleted  ProjectStatus = "COMPLETED"
	StatusFailed     ProjectStatus = "FAILED"
)

// String implements fmt.Stringer for logging
func (s ProjectStatus) String() string {
	if s == "" {
		return "unset"
	}
	return string(s)
}

// IsValid returns true if the status is a known lifecycle value
func (s ProjectStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAnalyzing, StatusAnalyzed, StatusGenerating, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true once a project can no longer change state
func (s ProjectStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// VersionStatus represents the outcome of one per-framework generation.
type VersionStatus string

const (
	VersionCompleted VersionStatus = "COMPLETED"
	VersionFailed    VersionStatus = "FAILED"
)

// String implements fmt.Stringer for logging
func (s VersionStatus) String() string {
	if s == "" {
		return "unset"
	}
	return string(s)
}

// StepForStatus derives a human-readable step name from a persisted status.
// Used by progress readers when no live tracker snapshot exists.
func StepForStatus(s ProjectStatus) string {
	switch s {
	case StatusPending:
		return "Initializing"
	case StatusAnalyzing:
		return "Analyzing Website"
	case StatusAnalyzed:
		return "Analysis Complete"
	case StatusGenerating:
		return "Generating Code"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	}
	return "Unknown"
}

// ProgressForStatus derives a coarse progress percentage from a persisted status.
func ProgressForStatus(s ProjectStatus) int {
	switch s {
	case StatusPending:
		return 10
	case StatusAnalyzing:
		return 30
	case StatusAnalyzed:
		return 60
	case StatusGenerating:
		return 80
	case StatusCompleted:
		return 100
	}
	return 0
}

// MessageForStatus derives a user-facing message from a persisted status.
func MessageForStatus(s ProjectStatus) string {
	switch s {
	case StatusPending:
		return "Project created, starting analysis..."
	case StatusAnalyzing:
		return "Analyzing website structure and content..."
	case StatusAnalyzed:
		return "Analysis complete, starting code generation..."
	case StatusGenerating:
		return "Generating code for multiple frameworks..."
	case StatusCompleted:
		return "Website successfully cloned! Ready for download."
	case StatusFailed:
		return "An error occurred during the cloning process."
	}
	return "Processing..."
}

// RecordFromStatus builds a fallback progress record from a persisted status.
func RecordFromStatus(p *Project) ProgressRecord {
	return ProgressRecord{
		Status:    p.Status,
		Step:      StepForStatus(p.Status),
		Progress:  ProgressForStatus(p.Status),
		Message:   MessageForStatus(p.Status),
		Timestamp: p.UpdatedAt,
	}
}
