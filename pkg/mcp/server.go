// Package mcp exposes the cloner over the Model Context Protocol.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"site-cloner/pkg/config"
	"site-cloner/pkg/job"
	"site-cloner/pkg/storage"
)

const (
	serverName    = "site-cloner"
	serverVersion = "1.0.0"
)

// ServerConfig holds configuration for the MCP server
type ServerConfig struct {
	AppConfig *config.AppConfig
	Transport string // "stdio" or "sse"
	Port      int
	Logger    *logrus.Logger
}

// Server wraps the MCP server with site-cloner specific functionality
type Server struct {
	mcpServer *server.MCPServer
	cfg       *ServerConfig
	store     storage.ProjectStore
	runner    *job.Runner
	runCtx    context.Context // Lifetime context for background clone runs
	log       *logrus.Entry
}

// NewServer creates a new MCP server instance. runCtx bounds the lifetime of
// background clone runs scheduled by clone_website.
func NewServer(runCtx context.Context, cfg *ServerConfig, store storage.ProjectStore, runner *job.Runner) (*Server, error) {
	if cfg.AppConfig == nil {
		return nil, fmt.Errorf("AppConfig is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithLogging(),
	)

	s := &Server{
		mcpServer: mcpServer,
		cfg:       cfg,
		store:     store,
		runner:    runner,
		runCtx:    runCtx,
		log:       cfg.Logger.WithField("component", "mcp"),
	}

	s.registerTools()
	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	cloneTool := mcp.NewTool("clone_website",
		mcp.WithDescription("Start cloning a website. Analyzes the site and generates code for the configured frameworks in the background. Returns immediately with a project ID."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The website URL to clone (http or https)"),
		),
		mcp.WithString("name",
			mcp.Description("Optional project name (defaults to the site hostname)"),
		),
	)
	s.mcpServer.AddTool(cloneTool, s.handleCloneWebsite)

	progressTool := mcp.NewTool("get_progress",
		mcp.WithDescription("Get the current progress of a clone project"),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("The project ID returned by clone_website"),
		),
	)
	s.mcpServer.AddTool(progressTool, s.handleGetProgress)

	projectTool := mcp.NewTool("get_project",
		mcp.WithDescription("Get the full record of a clone project, including detected technology and extracted content"),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("The project ID"),
		),
	)
	s.mcpServer.AddTool(projectTool, s.handleGetProject)

	listTool := mcp.NewTool("list_projects",
		mcp.WithDescription("List all clone projects, newest first"),
	)
	s.mcpServer.AddTool(listTool, s.handleListProjects)

	filesTool := mcp.NewTool("get_generated_files",
		mcp.WithDescription("Get the generated project files for one framework of a completed clone"),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("The project ID"),
		),
		mcp.WithString("framework",
			mcp.Required(),
			mcp.Description("Framework tag: HTML_CSS_JS, NEXTJS, REACT, VUE, WORDPRESS, LARAVEL, or PHP"),
		),
	)
	s.mcpServer.AddTool(filesTool, s.handleGetGeneratedFiles)

	s.log.Infof("Registered %d MCP tools", 5)
}

// Run starts the MCP server with the configured transport
func (s *Server) Run() error {
	switch s.cfg.Transport {
	case "stdio":
		s.log.Info("Starting MCP server with stdio transport")
		return server.ServeStdio(s.mcpServer)
	case "sse":
		addr := fmt.Sprintf(":%d", s.cfg.Port)
		s.log.Infof("Starting MCP server with SSE transport on %s", addr)
		sseServer := server.NewSSEServer(s.mcpServer)
		return sseServer.Start(addr)
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio, sse)", s.cfg.Transport)
	}
}
