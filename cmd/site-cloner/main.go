package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"site-cloner/pkg/analyze"
	"site-cloner/pkg/browser"
	"site-cloner/pkg/config"
	"site-cloner/pkg/generate"
	"site-cloner/pkg/job"
	"site-cloner/pkg/mcp"
	"site-cloner/pkg/models"
	"site-cloner/pkg/progress"
	"site-cloner/pkg/storage"
	"site-cloner/pkg/utils"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "clone":
		runClone(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "version":
		fmt.Printf("site-cloner %s\n", version)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printUsageTo(os.Stdout)
}

// printUsageTo writes usage information to the provided writer.
func printUsageTo(w io.Writer) {
	fmt.Fprintln(w, `site-cloner - Website analysis and multi-framework code generation

Usage:
  site-cloner <command> [options]

Commands:
  clone     Clone a website synchronously and write generated files to disk
  serve     Start MCP server for AI tool integration
  validate  Validate configuration file
  version   Show version info

Run 'site-cloner <command> -h' for command-specific help.`)
}

// setupLogger creates a configured logrus.Logger with the given log level.
func setupLogger(logLevelStr string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)

	level, err := logrus.ParseLevel(logLevelStr)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", logLevelStr, err)
	} else {
		log.SetLevel(level)
	}

	return log
}

// loadAndValidateConfig loads the config file, validates it, and logs warnings.
func loadAndValidateConfig(configFile string, log *logrus.Logger) *config.AppConfig {
	log.Infof("Loading configuration from %s", configFile)
	appCfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	warnings, err := appCfg.Validate()
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		log.Fatalf("Config validation error: %v", err)
	}

	return appCfg
}

// components bundles everything a command needs to run clones.
type components struct {
	store   storage.ProjectStore
	tracker *progress.Tracker
	runner  *job.Runner
}

// buildComponents wires storage, browser, analyzer, generator, and the
// runner from the validated config.
func buildComponents(ctx context.Context, appCfg *config.AppConfig, log *logrus.Logger) (*components, error) {
	entry := logrus.NewEntry(log)

	store, err := storage.NewBadgerStore(ctx, appCfg.StateDir, entry)
	if err != nil {
		return nil, fmt.Errorf("initializing project database: %w", err)
	}

	model, err := generate.NewGoogleAIGenerator(ctx, appCfg.Model, appCfg.ResolveAPIKey())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("initializing model client: %w", err)
	}

	mgr := browser.NewManager(appCfg.Browser, entry)
	analyzer := analyze.NewAnalyzer(mgr, appCfg, entry)
	generator := generate.NewGenerator(model, appCfg.Model, entry)
	tracker := progress.NewTracker(appCfg.ProgressTTL, entry)
	runner := job.NewRunner(store, tracker, analyzer, generator, appCfg, entry)

	return &components{store: store, tracker: tracker, runner: runner}, nil
}

// runClone handles the clone subcommand: a full synchronous clone run that
// writes the generated project trees to disk.
func runClone(args []string) {
	fs := flag.NewFlagSet("clone", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")
	urlFlag := fs.String("url", "", "Website URL to clone (required)")
	nameFlag := fs.String("name", "", "Project name (defaults to the site hostname)")
	outDir := fs.String("out", "", "Output directory (defaults to output_base_dir from config)")
	logLevel := fs.String("loglevel", "info", "Log level (debug, info, warn, error, fatal)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: site-cloner clone [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  site-cloner clone -url https://example.com\n")
		fmt.Fprintf(os.Stderr, "  site-cloner clone -url https://example.com -name my-clone -out ./clones\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *urlFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: -url is required")
		fs.Usage()
		os.Exit(1)
	}

	log := setupLogger(*logLevel)
	appCfg := loadAndValidateConfig(*configFile, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		sig := <-sigChan
		log.Warnf("Received signal %v, cancelling clone...", sig)
		cancel()
	}()

	comps, err := buildComponents(ctx, appCfg, log)
	if err != nil {
		log.Fatalf("Initialization error: %v", err)
	}
	defer comps.store.Close()

	name := *nameFlag
	if name == "" {
		name = *urlFlag
	}
	now := time.Now()
	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        name,
		OriginalURL: *urlFlag,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := comps.store.CreateProject(project); err != nil {
		log.Fatalf("Failed to create project: %v", err)
	}

	log.Infof("Cloning %s (project %s)", *urlFlag, project.ID)
	comps.runner.Run(ctx, project)

	final, err := comps.store.GetProject(project.ID)
	if err != nil {
		log.Fatalf("Failed to read project after run: %v", err)
	}
	if final.Status != models.StatusCompleted {
		log.Errorf("Clone did not complete (status: %s)", final.Status)
		os.Exit(1)
	}

	base := *outDir
	if base == "" {
		base = appCfg.OutputBaseDir
	}
	projectDir := filepath.Join(base, utils.SanitizeFilename(final.Name))
	if err := writeGeneratedFiles(comps.store, project.ID, projectDir, appCfg.FrameworkTargets(), log); err != nil {
		log.Fatalf("Failed to write generated files: %v", err)
	}

	log.Infof("Clone complete. Output written to %s", projectDir)
}

// writeGeneratedFiles writes every completed framework version under
// baseDir/<framework>/, routing each model-supplied path through SafeJoin.
func writeGeneratedFiles(store storage.ProjectStore, projectID, baseDir string, frameworks []models.Framework, log *logrus.Logger) error {
	for _, fw := range frameworks {
		v, err := store.GetVersion(projectID, fw)
		if err != nil {
			log.Warnf("No generated version for %s, skipping", fw)
			continue
		}
		if v.Status != models.VersionCompleted {
			log.Warnf("Generation for %s failed, skipping", fw)
			continue
		}

		fwDir := filepath.Join(baseDir, utils.SanitizeFilename(string(fw)))
		for _, f := range v.Files {
			target, err := utils.SafeJoin(fwDir, f.Path)
			if err != nil {
				log.Warnf("Skipping unsafe path %q for %s: %v", f.Path, fw, err)
				continue
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("creating directory for %s: %w", target, err)
			}
			if err := os.WriteFile(target, []byte(f.Content), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}
		}
		log.Infof("Wrote %d files for %s", len(v.Files), fw)
	}
	return nil
}

// runServe handles the serve subcommand
func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")
	transport := fs.String("transport", "stdio", "MCP transport (stdio or sse)")
	port := fs.Int("port", 8080, "Port for SSE transport")
	logLevel := fs.String("loglevel", "info", "Log level (debug, info, warn, error, fatal)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: site-cloner serve [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	log := setupLogger(*logLevel)
	appCfg := loadAndValidateConfig(*configFile, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		sig := <-sigChan
		log.Warnf("Received signal %v, shutting down...", sig)
		cancel()

		select {
		case sig = <-sigChan:
			log.Warnf("Received second signal: %v. Forcing exit.", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			log.Warn("Graceful shutdown period exceeded. Forcing exit.")
			os.Exit(1)
		}
	}()

	comps, err := buildComponents(ctx, appCfg, log)
	if err != nil {
		log.Fatalf("Initialization error: %v", err)
	}
	defer comps.store.Close()

	srv, err := mcp.NewServer(ctx, &mcp.ServerConfig{
		AppConfig: appCfg,
		Transport: *transport,
		Port:      *port,
		Logger:    log,
	}, comps.store, comps.runner)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	if err := srv.Run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("MCP server error: %v", err)
	}
	log.Info("Server stopped")
}

// runValidate handles the validate subcommand
func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: site-cloner validate [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	os.Exit(doValidate(*configFile, os.Stdout, os.Stderr))
}

// doValidate performs validation and writes output to provided writers.
// Returns exit code (0 = success, 1 = error).
func doValidate(configPath string, stdout, stderr io.Writer) int {
	appCfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	warnings, err := appCfg.Validate()
	for _, w := range warnings {
		fmt.Fprintf(stdout, "WARN: %s\n", w)
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "OK: %d framework target(s): %v\n", len(appCfg.Frameworks), appCfg.Frameworks)
	fmt.Fprintln(stdout, "\nConfiguration valid.")
	return 0
}
