// Package job orchestrates the clone lifecycle for one project: analysis,
// per-framework generation, and persisted status transitions.
package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"site-cloner/pkg/config"
	"site-cloner/pkg/models"
	"site-cloner/pkg/progress"
	"site-cloner/pkg/storage"
	"site-cloner/pkg/utils"
)

// WebsiteAnalyzer is the analysis dependency of the runner.
type WebsiteAnalyzer interface {
	AnalyzeWebsite(ctx context.Context, url string) (*models.WebsiteAnalysis, error)
	ReleaseBrowser()
}

// CodeGenerator is the generation dependency of the runner.
type CodeGenerator interface {
	GenerateCode(ctx context.Context, analysis *models.WebsiteAnalysis, fw models.Framework) (*models.CodeGenerationResult, error)
}

// scheduleDelay gives the creating request time to return the project id
// before the background run starts publishing progress.
const scheduleDelay = 1 * time.Second

// Runner drives one project through the clone state machine. A weighted
// semaphore bounds how many projects run concurrently.
type Runner struct {
	store      storage.ProjectStore
	tracker    *progress.Tracker
	analyzer   WebsiteAnalyzer
	generator  CodeGenerator
	frameworks []models.Framework
	sem        *semaphore.Weighted
	genTimeout time.Duration
	log        *logrus.Entry
}

// NewRunner wires the orchestrator.
func NewRunner(
	store storage.ProjectStore,
	tracker *progress.Tracker,
	analyzer WebsiteAnalyzer,
	generator CodeGenerator,
	cfg *config.AppConfig,
	logger *logrus.Entry,
) *Runner {
	return &Runner{
		store:      store,
		tracker:    tracker,
		analyzer:   analyzer,
		generator:  generator,
		frameworks: cfg.FrameworkTargets(),
		sem:        semaphore.NewWeighted(cfg.MaxConcurrentClones),
		genTimeout: cfg.Model.GenerationTimeout,
		log:        logger.WithField("component", "job"),
	}
}

// Schedule starts the clone run in its own goroutine after a short delay.
func (r *Runner) Schedule(ctx context.Context, p *models.Project) {
	go func() {
		select {
		case <-time.After(scheduleDelay):
		case <-ctx.Done():
			return
		}
		if err := r.sem.Acquire(ctx, 1); err != nil {
			r.log.WithField("project_id", p.ID).WithError(err).Warn("Clone run cancelled before start")
			return
		}
		defer r.sem.Release(1)
		r.Run(ctx, p)
	}()
}

// Run executes the full clone lifecycle synchronously. Any error short of
// per-framework generation failure marks the project FAILED. The shared
// browser is always released afterwards.
func (r *Runner) Run(ctx context.Context, p *models.Project) {
	log := r.log.WithFields(logrus.Fields{
		"project_id": p.ID,
		"url":        p.OriginalURL,
	})
	defer r.analyzer.ReleaseBrowser()

	if err := r.run(ctx, p, log); err != nil {
		log.WithFields(logrus.Fields{
			"error_category": utils.CategorizeError(err),
		}).WithError(err).Error("Clone run failed")

		r.tracker.Update(p.ID, models.ProgressUpdate{
			Status:  models.StatusFailed,
			Step:    "Failed",
			Message: fmt.Sprintf("Cloning failed: %v", err),
		})
		if dbErr := r.store.UpdateProjectStatus(p.ID, models.StatusFailed); dbErr != nil {
			log.WithError(dbErr).Error("Failed to persist FAILED status")
		}
		return
	}
	log.Info("Clone run completed")
}

func (r *Runner) run(ctx context.Context, p *models.Project, log *logrus.Entry) error {
	r.tracker.Update(p.ID, models.ProgressUpdate{
		Status:   models.StatusAnalyzing,
		Step:     "Starting Analysis",
		Progress: 15,
		Message:  "Initializing website analysis...",
	})
	if err := r.store.UpdateProjectStatus(p.ID, models.StatusAnalyzing); err != nil {
		return err
	}

	r.tracker.Update(p.ID, models.ProgressUpdate{
		Step:     "Analyzing Website Structure",
		Progress: 25,
		Message:  "Rendering the page and extracting content...",
	})

	analysis, err := r.analyzer.AnalyzeWebsite(ctx, p.OriginalURL)
	if err != nil {
		return err
	}

	r.tracker.Update(p.ID, models.ProgressUpdate{
		Step:     "Analysis Complete",
		Progress: 50,
		Message:  "Website analysis complete",
		Details: map[string]any{
			"framework": analysis.DetectedTechnology.Framework,
			"language":  analysis.DetectedTechnology.Language,
		},
	})
	if err := r.store.SaveAnalysis(p.ID, analysis); err != nil {
		return err
	}

	r.tracker.Update(p.ID, models.ProgressUpdate{
		Status:   models.StatusGenerating,
		Step:     "Starting Code Generation",
		Progress: 60,
		Message:  "Generating code for multiple frameworks...",
	})
	if err := r.store.UpdateProjectStatus(p.ID, models.StatusGenerating); err != nil {
		return err
	}

	for i, fw := range r.frameworks {
		r.tracker.Update(p.ID, models.ProgressUpdate{
			Step:     fmt.Sprintf("Generating %s Code", fw),
			Progress: 60 + (i+1)*10,
			Message:  fmt.Sprintf("Generating %s version...", fw),
		})
		if err := r.generateOne(ctx, p, analysis, fw, log); err != nil {
			return err
		}
	}

	r.tracker.Update(p.ID, models.ProgressUpdate{
		Status:   models.StatusCompleted,
		Step:     "All Done!",
		Progress: 100,
		Message:  "Website successfully cloned! Ready for download.",
	})
	return r.store.UpdateProjectStatus(p.ID, models.StatusCompleted)
}

// generateOne runs a single framework generation under the configured
// timeout. Generation failure is recovered: a FAILED version with empty
// files is persisted and the run continues. Only a persistence error
// propagates.
func (r *Runner) generateOne(ctx context.Context, p *models.Project, analysis *models.WebsiteAnalysis, fw models.Framework, log *logrus.Entry) error {
	genCtx, cancel := context.WithTimeout(ctx, r.genTimeout)
	result, err := r.generator.GenerateCode(genCtx, analysis, fw)
	cancel()

	version := &models.GeneratedVersion{
		ID:          uuid.NewString(),
		ProjectID:   p.ID,
		Framework:   fw,
		GeneratedAt: time.Now(),
	}

	if err != nil {
		log.WithFields(logrus.Fields{
			"framework":      fw,
			"error_category": utils.CategorizeError(err),
		}).WithError(err).Warn("Framework generation failed, continuing with remaining frameworks")
		version.Status = models.VersionFailed
		version.Files = []models.GeneratedFile{}
	} else {
		version.Status = models.VersionCompleted
		version.Files = result.Files
		if data, jsonErr := json.Marshal(result.Files); jsonErr == nil {
			version.BuildSize = len(data)
		}
	}

	return r.store.SaveVersion(version)
}

// Progress returns the freshest view of a project's progress: the live
// tracker snapshot when present, otherwise a record derived from the
// persisted status.
func (r *Runner) Progress(projectID string) (models.ProgressRecord, error) {
	if rec, ok := r.tracker.Get(projectID); ok {
		return rec, nil
	}
	p, err := r.store.GetProject(projectID)
	if err != nil {
		return models.ProgressRecord{}, err
	}
	return models.RecordFromStatus(p), nil
}
