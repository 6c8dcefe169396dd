package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"site-cloner/pkg/models"
)

// handleCloneWebsite handles the clone_website tool
func (s *Server) handleCloneWebsite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL := request.GetString("url", "")
	if rawURL == "" {
		return mcp.NewToolResultError("url parameter is required"), nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid URL: %q (must be http or https)", rawURL)), nil
	}

	name := request.GetString("name", "")
	if name == "" {
		name = parsed.Host
	}

	now := time.Now()
	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        name,
		OriginalURL: rawURL,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateProject(project); err != nil {
		s.log.WithError(err).Error("Failed to create project")
		return mcp.NewToolResultError(fmt.Sprintf("failed to create project: %v", err)), nil
	}

	// Background run outlives this request; bound it to the server lifetime.
	s.runner.Schedule(s.runCtx, project)

	s.log.WithFields(map[string]interface{}{
		"project_id": project.ID,
		"url":        rawURL,
	}).Info("Clone project created")

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"project_id": project.ID,
		"name":       project.Name,
		"status":     project.Status,
		"message":    "Clone started. Poll get_progress with this project_id.",
	})), nil
}

// handleGetProgress handles the get_progress tool
func (s *Server) handleGetProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := request.GetString("project_id", "")
	if projectID == "" {
		return mcp.NewToolResultError("project_id parameter is required"), nil
	}

	rec, err := s.runner.Progress(projectID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", projectID)), nil
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"project_id": projectID,
		"status":     rec.Status,
		"step":       rec.Step,
		"progress":   rec.Progress,
		"message":    rec.Message,
		"details":    rec.Details,
		"timestamp":  rec.Timestamp.Format(time.RFC3339),
	})), nil
}

// handleGetProject handles the get_project tool
func (s *Server) handleGetProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := request.GetString("project_id", "")
	if projectID == "" {
		return mcp.NewToolResultError("project_id parameter is required"), nil
	}

	project, err := s.store.GetProject(projectID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", projectID)), nil
	}

	versions, err := s.store.ListVersions(projectID)
	if err != nil {
		s.log.WithError(err).Warn("Failed to list versions for project")
	}
	versionSummaries := make([]map[string]interface{}, 0, len(versions))
	for _, v := range versions {
		versionSummaries = append(versionSummaries, map[string]interface{}{
			"framework":  v.Framework,
			"status":     v.Status,
			"file_count": len(v.Files),
			"build_size": v.BuildSize,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"project":  project,
		"versions": versionSummaries,
	})), nil
}

// handleListProjects handles the list_projects tool
func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.store.ListProjects()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list projects: %v", err)), nil
	}

	summaries := make([]map[string]interface{}, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, map[string]interface{}{
			"project_id": p.ID,
			"name":       p.Name,
			"url":        p.OriginalURL,
			"status":     p.Status,
			"created_at": p.CreatedAt.Format(time.RFC3339),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"projects": summaries,
		"total":    len(summaries),
	})), nil
}

// handleGetGeneratedFiles handles the get_generated_files tool
func (s *Server) handleGetGeneratedFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := request.GetString("project_id", "")
	if projectID == "" {
		return mcp.NewToolResultError("project_id parameter is required"), nil
	}

	fw := models.Framework(request.GetString("framework", ""))
	if !fw.IsValid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown framework: %q", fw)), nil
	}

	version, err := s.store.GetVersion(projectID, fw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no generated version for project %s framework %s", projectID, fw)), nil
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"project_id":   version.ProjectID,
		"framework":    version.Framework,
		"status":       version.Status,
		"build_size":   version.BuildSize,
		"generated_at": version.GeneratedAt.Format(time.RFC3339),
		"files":        version.Files,
	})), nil
}

// formatJSON renders a result payload as indented JSON
func formatJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
