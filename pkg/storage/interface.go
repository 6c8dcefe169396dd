package storage

import (
	"site-cloner/pkg/models"
)

// ProjectStore is the persistence boundary for projects and their
// per-framework generated versions.
type ProjectStore interface {
	// CreateProject persists a new project record.
	CreateProject(p *models.Project) error

	// GetProject returns the project or utils.ErrProjectNotFound.
	GetProject(id string) (*models.Project, error)

	// UpdateProjectStatus sets the status and refreshes UpdatedAt.
	UpdateProjectStatus(id string, status models.ProjectStatus) error

	// SaveAnalysis stores the analysis outcome on the project: extracted
	// content (truncated), detected technology, screenshots, and the
	// ANALYZED status.
	SaveAnalysis(id string, analysis *models.WebsiteAnalysis) error

	// ListProjects returns all projects, newest first.
	ListProjects() ([]*models.Project, error)

	// SaveVersion persists one per-framework generation outcome,
	// overwriting any previous version for the same framework.
	SaveVersion(v *models.GeneratedVersion) error

	// GetVersion returns a framework's version or utils.ErrVersionNotFound.
	GetVersion(projectID string, fw models.Framework) (*models.GeneratedVersion, error)

	// ListVersions returns all generated versions for a project.
	ListVersions(projectID string) ([]*models.GeneratedVersion, error)

	// Close releases the underlying database.
	Close() error
}
